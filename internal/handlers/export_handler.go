package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"billing-export/internal/logger"
	"billing-export/internal/metrics"
	"billing-export/internal/middleware"
	"billing-export/internal/models"
	"billing-export/internal/repositories"
	"billing-export/internal/sentry"
	"billing-export/internal/storage"
	"billing-export/pkg/utils"

	"github.com/gorilla/mux"
)

// ExportService is the slice of the export pipeline the handler depends on.
type ExportService interface {
	FetchInvoiceData(ctx context.Context, id int) (*models.Invoice, []models.InvoiceItem, error)
	Regions(ctx context.Context) []models.Region
	GeneratePDF(inv *models.Invoice, items []models.InvoiceItem, regions []models.Region) ([]byte, string, error)
	GenerateCSV(inv *models.Invoice, items []models.InvoiceItem, regions []models.Region) ([]byte, string, error)
}

type ExportHandler struct {
	Service    ExportService
	Sentry     *sentry.Service
	ExportLogs *repositories.ExportLogRepository // nil when no database is configured
	Archiver   *storage.Archiver                 // nil when archiving is disabled
	Log        *logger.Logger
}

func NewExportHandler(service ExportService, sentrySvc *sentry.Service, exportLogs *repositories.ExportLogRepository, archiver *storage.Archiver, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		Service:    service,
		Sentry:     sentrySvc,
		ExportLogs: exportLogs,
		Archiver:   archiver,
		Log:        log,
	}
}

func invoiceID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil && id > 0
}

// GetInvoice handles GET /api/invoices/{id}
// Returns the fetched header and item collection as JSON.
func (h *ExportHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(r)
	if !ok {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	invoice, items, err := h.Service.FetchInvoiceData(ctx, id)
	if err != nil {
		http.Error(w, "Unable to retrieve invoice details.", http.StatusBadGateway)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"invoice": invoice,
		"items":   items,
	})
}

// GetInvoicePDF handles GET /api/invoices/{id}/pdf
// Streams the composed multi-page document as an attachment.
func (h *ExportHandler) GetInvoicePDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", "application/pdf", h.Service.GeneratePDF)
}

// GetInvoiceCSV handles GET /api/invoices/{id}/csv
// Streams the flat item table as an attachment.
func (h *ExportHandler) GetInvoiceCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", "text/csv", h.Service.GenerateCSV)
}

type renderFunc func(inv *models.Invoice, items []models.InvoiceItem, regions []models.Region) ([]byte, string, error)

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, exportFormat, contentType string, render renderFunc) {
	id, ok := invoiceID(r)
	if !ok {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	invoice, items, err := h.Service.FetchInvoiceData(ctx, id)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(exportFormat, "fetch_failed").Inc()
		h.audit(r, id, exportFormat, "fetch_failed", start)
		http.Error(w, "Unable to retrieve invoice details.", http.StatusBadGateway)
		return
	}

	regions := h.Service.Regions(ctx)

	data, filename, err := render(invoice, items, regions)
	if err != nil {
		h.Log.Errorw("export generation failed", "invoice_id", id, "format", exportFormat, "error", err)
		h.Sentry.CaptureException(err)
		metrics.ExportsTotal.WithLabelValues(exportFormat, "failed").Inc()
		h.audit(r, id, exportFormat, "failed", start)
		if exportFormat == "pdf" {
			http.Error(w, "Failed generating PDF.", http.StatusInternalServerError)
		} else {
			http.Error(w, "Failed generating CSV.", http.StatusInternalServerError)
		}
		return
	}

	metrics.ExportsTotal.WithLabelValues(exportFormat, "ok").Inc()
	metrics.ExportDuration.WithLabelValues(exportFormat).Observe(time.Since(start).Seconds())
	h.audit(r, id, exportFormat, "ok", start)
	h.Archiver.StoreAsync(id, filename, contentType, data)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(data)
}

// GetExportHistory handles GET /api/invoices/{id}/exports
func (h *ExportHandler) GetExportHistory(w http.ResponseWriter, r *http.Request) {
	if h.ExportLogs == nil {
		http.Error(w, "Export history is not available", http.StatusServiceUnavailable)
		return
	}

	id, ok := invoiceID(r)
	if !ok {
		http.Error(w, "Invalid invoice ID", http.StatusBadRequest)
		return
	}

	logs, err := h.ExportLogs.ListByInvoice(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load export history", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []*models.ExportLog{}
	}
	utils.JSON(w, http.StatusOK, logs)
}

// audit records the export attempt best-effort; a missing database or a
// failed insert never affects the response.
func (h *ExportHandler) audit(r *http.Request, invoiceID int, exportFormat, status string, start time.Time) {
	if h.ExportLogs == nil {
		return
	}

	requester, _ := middleware.GetEmailFromContext(r.Context())
	entry := &models.ExportLog{
		InvoiceID:  invoiceID,
		Format:     exportFormat,
		Status:     status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Requester:  requester,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.ExportLogs.Insert(ctx, entry); err != nil {
			h.Log.Warnw("export audit insert failed", "invoice_id", invoiceID, "error", err)
		}
	}()
}
