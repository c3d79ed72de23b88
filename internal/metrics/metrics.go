package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_exports_total",
		Help: "Invoice exports by format and outcome",
	}, []string{"format", "status"})

	ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_export_duration_seconds",
		Help:    "Time to fetch and render one invoice export",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"format"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Requests to the platform billing API",
	}, []string{"endpoint", "status"})
)
