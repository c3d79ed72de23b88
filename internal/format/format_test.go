package format

import (
	"testing"

	"billing-export/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.00", Money(decimal.NewFromInt(12)))
	assert.Equal(t, "$0.50", Money(decimal.RequireFromString("0.5")))
	assert.Equal(t, "$1234.57", Money(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "$0.00", Money(decimal.Zero))
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "none sentinel renders blank", in: "None", want: ""},
		{name: "empty renders blank", in: "", want: ""},
		{name: "raw precision preserved", in: "0.015", want: "$0.015"},
		{name: "plain value", in: "5", want: "$5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnitPrice(tt.in))
		})
	}
}

func TestDateParts(t *testing.T) {
	date, timeOfDay := DateParts(strptr("2023-10-06T14:30:00"))
	assert.Equal(t, "2023-10-06", date)
	assert.Equal(t, "14:30:00", timeOfDay)

	date, timeOfDay = DateParts(nil)
	assert.Equal(t, "", date)
	assert.Equal(t, "", timeOfDay)

	// A malformed timestamp becomes a blank cell, not an error.
	date, timeOfDay = DateParts(strptr("06/10/2023"))
	assert.Equal(t, "", date)
	assert.Equal(t, "", timeOfDay)
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "single segment passes through",
			label: "Transfer Overage",
			want:  "Transfer Overage",
		},
		{
			name:  "backup label keeps plan on its own line",
			label: "Backup Service - Cloud Instance 2GB - my-instance (1234)",
			want:  "Backup Service\nCloud Instance 2GB\nmy-instance (1234)",
		},
		{
			name:  "backup label truncates long instance name",
			label: "Backup Service - Cloud Instance 2GB - extremely-long-instance-name (1234)",
			want:  "Backup Service\nCloud Instance 2GB\nextremely-long-insta...",
		},
		{
			name:  "storage volume keeps size suffix inline",
			label: "Storage Volume - my-volume (1234) - 20 GB",
			want:  "Storage Volume\nmy-volume (1234) - 20 GB",
		},
		{
			name:  "generic label splits at first delimiter",
			label: "Cloud Instance 32GB - my-instance (1234)",
			want:  "Cloud Instance 32GB\nmy-instance (1234)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Description(tt.label))
		})
	}
}

func TestRegionLabel(t *testing.T) {
	regions := []models.Region{
		{ID: "id-cgk", Label: "Jakarta, ID", Country: "id"},
		{ID: "us-east", Label: "Newark, NJ", Country: "us"},
	}

	assert.Equal(t, "Jakarta, ID (id-cgk)", RegionLabel("Cloud Instance 2GB", strptr("id-cgk"), regions))
	assert.Equal(t, "eu-central", RegionLabel("Cloud Instance 2GB", strptr("eu-central"), regions))
	assert.Equal(t, "", RegionLabel("Cloud Instance 2GB", nil, regions))
	assert.Equal(t, "Global", RegionLabel("Transfer Overage", nil, regions))
	assert.Equal(t, "Global", RegionLabel("Transfer Overage", strptr(""), regions))
}

func TestBuildRows_PreservesOrder(t *testing.T) {
	items := []models.InvoiceItem{
		{Label: "Cloud Instance 2GB - a (1)", Quantity: decimal.NewFromInt(744), UnitPrice: "0.015", Amount: decimal.NewFromInt(12), Tax: decimal.Zero, Total: decimal.NewFromInt(12)},
		{Label: "Cloud Instance 2GB - b (2)", Quantity: decimal.NewFromInt(10), UnitPrice: "None", Amount: decimal.NewFromInt(1), Tax: decimal.Zero, Total: decimal.NewFromInt(1)},
		{Label: "Transfer Overage", Quantity: decimal.NewFromInt(3), UnitPrice: "0.01", Amount: decimal.NewFromInt(3), Tax: decimal.Zero, Total: decimal.NewFromInt(3)},
	}

	rows := BuildRows(items, nil)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Cloud Instance 2GB\na (1)", rows[0].Description)
	assert.Equal(t, "$0.015", rows[0].UnitPrice)
	assert.Equal(t, "$12.00", rows[0].Amount)
	assert.Equal(t, "", rows[1].UnitPrice)
	assert.Equal(t, "Global", rows[2].Region)
}
