package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"billing-export/internal/apiclient"
	"billing-export/internal/cache"
	"billing-export/internal/config"
	"billing-export/internal/logger"
	"billing-export/internal/models"
	"billing-export/internal/timeutil"
)

// ErrInvoiceFetch is returned whenever the invoice header or its item
// collection cannot be retrieved. Callers show one generic message; the
// underlying cause only goes to the log.
var ErrInvoiceFetch = errors.New("unable to retrieve invoice details")

// ExportService fetches invoice data from the platform API and renders it
// into downloadable documents.
type ExportService struct {
	api  apiclient.BillingAPI
	cfg  *config.Config
	log  *logger.Logger
	zone *time.Location
}

func NewExportService(api apiclient.BillingAPI, cfg *config.Config, log *logger.Logger) *ExportService {
	return &ExportService{
		api:  api,
		cfg:  cfg,
		log:  log,
		zone: timeutil.LoadZone(cfg.Export.Timezone),
	}
}

// FetchInvoiceData retrieves the invoice header and its full item collection.
// The two calls run concurrently and both must succeed before anything is
// returned; a failure on either side yields ErrInvoiceFetch and no partial
// data. Cancelling ctx abandons both calls.
func (s *ExportService) FetchInvoiceData(ctx context.Context, id int) (*models.Invoice, []models.InvoiceItem, error) {
	var (
		invoice  *models.Invoice
		items    []models.InvoiceItem
		invErr   error
		itemsErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		invoice, invErr = s.api.GetInvoice(ctx, id)
	}()
	go func() {
		defer wg.Done()
		items, itemsErr = s.api.ListInvoiceItems(ctx, id)
	}()
	wg.Wait()

	if invErr != nil {
		s.log.Errorw("invoice header fetch failed", "invoice_id", id, "error", invErr)
		return nil, nil, ErrInvoiceFetch
	}
	if itemsErr != nil {
		s.log.Errorw("invoice items fetch failed", "invoice_id", id, "error", itemsErr)
		return nil, nil, ErrInvoiceFetch
	}
	return invoice, items, nil
}

// Regions returns the region catalog for label resolution, served from
// cache when possible. A lookup failure is not fatal: the resolver falls
// back to raw region codes, so this returns an empty catalog on error.
func (s *ExportService) Regions(ctx context.Context) []models.Region {
	if data, ok := cache.GetCached(ctx, cache.RegionsKey); ok {
		var regions []models.Region
		if err := json.Unmarshal(data, &regions); err == nil {
			return regions
		}
		cache.InvalidateKeys(ctx, cache.RegionsKey)
	}

	regions, err := s.api.ListRegions(ctx)
	if err != nil {
		s.log.Warnw("region catalog fetch failed, item regions will show raw codes", "error", err)
		return nil
	}

	if data, err := json.Marshal(regions); err == nil {
		cache.SetCached(ctx, cache.RegionsKey, data, cache.RegionsTTL)
	}
	return regions
}

// invoiceDate parses the invoice's issue date. A malformed date degrades to
// the zero time so date-gated branches treat the invoice as pre-cutover and
// display fields render blank, rather than failing the export.
func (s *ExportService) invoiceDate(inv *models.Invoice) (time.Time, bool) {
	t, err := timeutil.ParseAPI(inv.Date)
	if err != nil {
		s.log.Warnw("invoice has malformed date", "invoice_id", inv.ID, "date", inv.Date)
		return time.Time{}, false
	}
	return t, true
}
