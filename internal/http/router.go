package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billing-export/internal/handlers"
	"billing-export/internal/middleware"
)

func NewRouter(
	exportHandler *handlers.ExportHandler,
	systemHandler *handlers.SystemHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("/{id}", exportHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/pdf", exportHandler.GetInvoicePDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/csv", exportHandler.GetInvoiceCSV).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/exports", exportHandler.GetExportHistory).Methods("GET")

	// Protected API routes - System stats
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(authMiddleware.Authenticate)
	systemAPI.HandleFunc("/stats", systemHandler.GetSystemStats).Methods("GET")

	// Health check endpoints (public)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
