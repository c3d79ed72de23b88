package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"billing-export/internal/billing"
	"billing-export/internal/format"
	"billing-export/internal/models"
)

// GenerateCSV flattens the item collection into a flat table in one pass.
// Monetary fields use the shared formatting rules; descriptions and
// timestamps pass through as raw strings. The Region column appears only
// when the pricing-epoch condition holds for this invoice.
func (s *ExportService) GenerateCSV(inv *models.Invoice, items []models.InvoiceItem, regions []models.Region) ([]byte, string, error) {
	date, _ := s.invoiceDate(inv)
	showRegion := billing.ShowRegionColumn(date, s.cfg.Features.DCSpecificPricing)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Description", "From", "To", "Quantity"}
	if showRegion {
		header = append(header, "Region")
	}
	header = append(header, "Unit Price", "Amount (USD)", "Tax (USD)", "Total (USD)")
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, item := range items {
		row := []string{
			item.Label,
			stringValue(item.From),
			stringValue(item.To),
			format.Quantity(item.Quantity),
		}
		if showRegion {
			row = append(row, format.RegionLabel(item.Label, item.Region, regions))
		}
		row = append(row,
			format.UnitPrice(item.UnitPrice),
			format.Money(item.Amount),
			format.Money(item.Tax),
			format.Money(item.Total),
		)
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("invoice-%s.csv", inv.Date), nil
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
