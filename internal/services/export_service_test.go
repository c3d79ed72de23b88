package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"

	"billing-export/internal/config"
	"billing-export/internal/logger"
	"billing-export/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBillingAPI struct {
	invoice    *models.Invoice
	items      []models.InvoiceItem
	regions    []models.Region
	invoiceErr error
	itemsErr   error
	regionsErr error
}

func (f *fakeBillingAPI) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	return f.invoice, f.invoiceErr
}

func (f *fakeBillingAPI) ListInvoiceItems(ctx context.Context, id int) ([]models.InvoiceItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeBillingAPI) ListRegions(ctx context.Context) ([]models.Region, error) {
	return f.regions, f.regionsErr
}

func strptr(s string) *string { return &s }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Features.DCSpecificPricing = true
	cfg.Export.Timezone = "UTC"
	return cfg
}

func testInvoice() *models.Invoice {
	return &models.Invoice{
		ID:       4521,
		Label:    "Invoice #4521",
		Date:     "2023-10-06T00:00:00",
		Subtotal: decimal.RequireFromString("100.00"),
		Tax:      decimal.RequireFromString("5.00"),
		Total:    decimal.RequireFromString("105.00"),
		TaxSummary: []models.TaxSummary{
			{Name: "GST/HST", Tax: decimal.RequireFromString("5.00")},
		},
		Billing: models.BillingSnapshot{
			Name:     "Jane Doe",
			Company:  "Acme Widgets",
			Address1: "1 Main Street",
			City:     "Vancouver",
			State:    "BC",
			Zip:      "V5K 0A1",
			Country:  "CA",
		},
	}
}

func testItems(n int) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, models.InvoiceItem{
			Label:     fmt.Sprintf("Cloud Instance 2GB - node-%d (%d)", i, i),
			From:      strptr("2023-09-01T00:00:00"),
			To:        strptr("2023-10-01T00:00:00"),
			Quantity:  decimal.NewFromInt(744),
			UnitPrice: "0.015",
			Region:    strptr("id-cgk"),
			Amount:    decimal.NewFromInt(12),
			Tax:       decimal.Zero,
			Total:     decimal.NewFromInt(12),
		})
	}
	return items
}

var testRegions = []models.Region{
	{ID: "id-cgk", Label: "Jakarta, ID", Country: "id"},
}

func TestFetchInvoiceData(t *testing.T) {
	api := &fakeBillingAPI{invoice: testInvoice(), items: testItems(3)}
	svc := NewExportService(api, testConfig(), logger.NewNop())

	inv, items, err := svc.FetchInvoiceData(context.Background(), 4521)
	require.NoError(t, err)
	assert.Equal(t, 4521, inv.ID)
	assert.Len(t, items, 3)
}

func TestFetchInvoiceData_EitherFailureIsFatal(t *testing.T) {
	boom := errors.New("upstream returned 500")

	svc := NewExportService(&fakeBillingAPI{invoiceErr: boom, items: testItems(1)}, testConfig(), logger.NewNop())
	inv, items, err := svc.FetchInvoiceData(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvoiceFetch)
	assert.Nil(t, inv)
	assert.Nil(t, items)

	svc = NewExportService(&fakeBillingAPI{invoice: testInvoice(), itemsErr: boom}, testConfig(), logger.NewNop())
	inv, items, err = svc.FetchInvoiceData(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvoiceFetch)
	assert.Nil(t, inv)
	assert.Nil(t, items)
}

func TestGeneratePDF(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())

	data, filename, err := svc.GeneratePDF(testInvoice(), testItems(5), testRegions)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "invoice-2023-10-06T00:00:00.pdf", filename)
}

func TestGeneratePDF_MultiPage(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())

	// 40 rows at 16 per page spans three pages.
	data, _, err := svc.GeneratePDF(testInvoice(), testItems(40), testRegions)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGeneratePDF_EmptyItems(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())

	data, _, err := svc.GeneratePDF(testInvoice(), nil, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGeneratePDF_MalformedDateUsesRawStamp(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())

	inv := testInvoice()
	inv.Date = "not-a-date"
	data, filename, err := svc.GeneratePDF(inv, testItems(1), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "invoice-not-a-date.pdf", filename)
}

func TestGenerateCSV(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())

	data, filename, err := svc.GenerateCSV(testInvoice(), testItems(2), testRegions)
	require.NoError(t, err)
	assert.Equal(t, "invoice-2023-10-06T00:00:00.csv", filename)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Description", "From", "To", "Quantity", "Region",
		"Unit Price", "Amount (USD)", "Tax (USD)", "Total (USD)",
	}, records[0])

	// Raw label and timestamps, formatted money, resolved region.
	assert.Equal(t, []string{
		"Cloud Instance 2GB - node-1 (1)",
		"2023-09-01T00:00:00",
		"2023-10-01T00:00:00",
		"744",
		"Jakarta, ID (id-cgk)",
		"$0.015",
		"$12.00",
		"$0.00",
		"$12.00",
	}, records[1])
}

func TestGenerateCSV_RegionColumnGate(t *testing.T) {
	// Invoice dated before the pricing cutover has no Region column.
	svc := NewExportService(&fakeBillingAPI{}, testConfig(), logger.NewNop())
	inv := testInvoice()
	inv.Date = "2023-10-04T00:00:00"

	data, _, err := svc.GenerateCSV(inv, testItems(1), testRegions)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.NotContains(t, records[0], "Region")

	// Same invoice with the feature flag off.
	cfg := testConfig()
	cfg.Features.DCSpecificPricing = false
	svc = NewExportService(&fakeBillingAPI{}, cfg, logger.NewNop())

	data, _, err = svc.GenerateCSV(testInvoice(), testItems(1), testRegions)
	require.NoError(t, err)
	records, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.NotContains(t, records[0], "Region")
}

func TestRegions_FallsBackToEmptyOnError(t *testing.T) {
	svc := NewExportService(&fakeBillingAPI{regionsErr: errors.New("unavailable")}, testConfig(), logger.NewNop())
	assert.Nil(t, svc.Regions(context.Background()))
}
