// Package format holds the field-formatting rules shared by the PDF and CSV
// export paths so the two cannot drift in numeric or region rendering.
package format

import (
	"fmt"
	"strings"

	"billing-export/internal/models"
	"billing-export/internal/timeutil"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// NoneUnitPrice is the sentinel the billing system emits for items that have
// no meaningful unit price.
const NoneUnitPrice = "None"

// Money renders a monetary value with a leading currency symbol and exactly
// two decimal places.
func Money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// UnitPrice renders an item's textual unit price. The "None" sentinel (or an
// empty value) renders blank; otherwise the raw precision is preserved, so
// "0.015" stays "$0.015".
func UnitPrice(v string) string {
	if v == "" || v == NoneUnitPrice {
		return ""
	}
	return "$" + v
}

// Quantity renders an item quantity without trailing zero noise.
func Quantity(v decimal.Decimal) string {
	return v.String()
}

// DateParts splits an optional API timestamp into a date string and a time
// string. A missing or malformed value yields two empty strings rather than
// an error so a bad timestamp becomes a blank cell, not a failed export.
func DateParts(v *string) (string, string) {
	if v == nil || *v == "" {
		return "", ""
	}
	t, err := timeutil.ParseAPI(*v)
	if err != nil {
		return "", ""
	}
	return t.Format(timeutil.DateLayout), t.Format(timeutil.TimeLayout)
}

// truncate shortens long sub-labels so instance and volume names cannot blow
// out the description column.
func truncate(label string) string {
	if len(label) > 20 {
		return label[:20] + "..."
	}
	return label
}

// Description lays out an item label over multiple lines. Labels arrive in
// one of three shapes:
//
//	Backup Service - Cloud Instance 2GB - my-instance (1234)
//	Cloud Instance 32GB - my-instance (1234)
//	Storage Volume - my-volume (1234) - 20 GB
//
// Anything with fewer than two hyphen-delimited segments (e.g. a transfer
// overage line) passes through untouched.
func Description(label string) string {
	chunks := strings.Split(label, " - ")
	if len(chunks) < 2 {
		return label
	}

	if strings.HasPrefix(label, "Backup") {
		base := chunks[0] + "\n" + chunks[1]
		if len(chunks) >= 3 {
			return base + "\n" + truncate(chunks[2])
		}
		return base
	}

	if strings.HasPrefix(label, "Storage Volume") {
		base := chunks[0] + "\n" + truncate(chunks[1])
		if len(chunks) >= 3 {
			return base + " - " + chunks[2]
		}
		return base
	}

	return chunks[0] + "\n" + truncate(strings.Join(chunks[1:], " - "))
}

// RegionLabel resolves an item's region code against the region catalog.
// A match renders "{label} ({code})" and a miss falls back to the raw code.
// No code at all renders blank, except for global transfer overage items,
// which have no region by definition and render "Global".
func RegionLabel(description string, region *string, regions []models.Region) string {
	if region == nil || *region == "" {
		if strings.Contains(description, "Transfer Overage") {
			return "Global"
		}
		return ""
	}
	if match, ok := lo.Find(regions, func(r models.Region) bool { return r.ID == *region }); ok {
		return fmt.Sprintf("%s (%s)", match.Label, match.ID)
	}
	return *region
}

// Row is one fully formatted table row for the paginated document export.
type Row struct {
	Description string
	FromDate    string
	FromTime    string
	ToDate      string
	ToTime      string
	Quantity    string
	Region      string
	UnitPrice   string
	Amount      string
	Tax         string
	Total       string
}

// BuildRow applies every per-field rule to one invoice item.
func BuildRow(item models.InvoiceItem, regions []models.Region) Row {
	fromDate, fromTime := DateParts(item.From)
	toDate, toTime := DateParts(item.To)
	return Row{
		Description: Description(item.Label),
		FromDate:    fromDate,
		FromTime:    fromTime,
		ToDate:      toDate,
		ToTime:      toTime,
		Quantity:    Quantity(item.Quantity),
		Region:      RegionLabel(item.Label, item.Region, regions),
		UnitPrice:   UnitPrice(item.UnitPrice),
		Amount:      Money(item.Amount),
		Tax:         Money(item.Tax),
		Total:       Money(item.Total),
	}
}

// BuildRows formats the whole item collection, preserving order.
func BuildRows(items []models.InvoiceItem, regions []models.Region) []Row {
	return lo.Map(items, func(item models.InvoiceItem, _ int) Row {
		return BuildRow(item, regions)
	})
}
