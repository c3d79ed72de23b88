package models

import "github.com/shopspring/decimal"

// Invoice is the summary record for one billing invoice as returned by the
// platform API. It carries a snapshot of the billing address taken when the
// invoice was issued; nothing here is mutated after fetch.
type Invoice struct {
	ID         int             `json:"id"`
	Label      string          `json:"label"`
	Date       string          `json:"date"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	TaxSummary []TaxSummary    `json:"tax_summary"`
	Billing    BillingSnapshot `json:"billing"`
}

// TaxSummary is one tax-category line on an invoice (e.g. "PA STATE TAX").
type TaxSummary struct {
	Name string          `json:"name"`
	Tax  decimal.Decimal `json:"tax"`
}

// BillingSnapshot is the account's billing address as it stood when the
// invoice was issued.
type BillingSnapshot struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	TaxID    string `json:"tax_id"`
}

// InvoiceItem is one billable line within an invoice. Item order as returned
// by the API reflects billing-system order and is preserved through export.
//
// UnitPrice is textual on the wire and may be the literal sentinel "None".
// Decimal fields accept both JSON strings and numbers.
type InvoiceItem struct {
	Label     string          `json:"label"`
	From      *string         `json:"from"`
	To        *string         `json:"to"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	Region    *string         `json:"region"`
	Amount    decimal.Decimal `json:"amount"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}
