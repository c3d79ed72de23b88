package billing

import "time"

// TaxEntry is one tax registration printed on invoices for a jurisdiction.
type TaxEntry struct {
	Label string
	ID    string
}

// TaxPolicy is the tax-id configuration for one billing country. The whole
// policy is gated by EffectiveDate: ids appear only on invoices dated on or
// after it. A nil EffectiveDate means always eligible.
type TaxPolicy struct {
	EffectiveDate *time.Time
	CountryTax    *TaxEntry
	ProvincialTax map[string]TaxEntry
}

var canadaEffective = time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC)

// taxPolicies maps billing country to its invoice tax-id policy. Countries
// without an entry print no tax ids.
var taxPolicies = map[string]TaxPolicy{
	"CA": {
		EffectiveDate: &canadaEffective,
		CountryTax:    &TaxEntry{Label: "GST/HST", ID: "774247245RT0001"},
		ProvincialTax: map[string]TaxEntry{
			"BC": {Label: "BC PST", ID: "PST-1467-5433"},
			"MB": {Label: "MB RST", ID: "140727-4"},
			"QC": {Label: "QST", ID: "1230943396TQ0001"},
			"SK": {Label: "SK PST", ID: "7648249"},
		},
	},
	"JP": {
		CountryTax: &TaxEntry{Label: "JCT", ID: "T7700150116256"},
	},
	"NO": {
		CountryTax: &TaxEntry{Label: "VAT", ID: "NO 835 237 332 MVA"},
	},
}

// PolicyFor returns the tax policy for a billing country, if any.
func PolicyFor(country string) (TaxPolicy, bool) {
	p, ok := taxPolicies[country]
	return p, ok
}

// eligible applies the policy's date gate against the invoice issue date.
func (p TaxPolicy) eligible(invoiceDate time.Time) bool {
	return p.EffectiveDate == nil || !invoiceDate.Before(*p.EffectiveDate)
}

// CountryTaxID returns the country-level tax id to print, if the invoice
// date passes the policy's date gate.
func (p TaxPolicy) CountryTaxID(invoiceDate time.Time) (TaxEntry, bool) {
	if p.CountryTax == nil || !p.eligible(invoiceDate) {
		return TaxEntry{}, false
	}
	return *p.CountryTax, true
}

// ProvincialTaxID returns the provincial tax id for the billing state, if
// one is configured and the same date gate passes.
func (p TaxPolicy) ProvincialTaxID(state string, invoiceDate time.Time) (TaxEntry, bool) {
	if !p.eligible(invoiceDate) {
		return TaxEntry{}, false
	}
	entry, ok := p.ProvincialTax[state]
	return entry, ok
}

// TaxIDLines collects every tax-id line for an invoice's remit block, in a
// stable order: country-level first, then provincial.
func TaxIDLines(country, state string, invoiceDate time.Time) []string {
	policy, ok := PolicyFor(country)
	if !ok {
		return nil
	}
	var lines []string
	if entry, ok := policy.CountryTaxID(invoiceDate); ok {
		lines = append(lines, entry.Label+" #: "+entry.ID)
	}
	if entry, ok := policy.ProvincialTaxID(state, invoiceDate); ok {
		lines = append(lines, entry.Label+" #: "+entry.ID)
	}
	return lines
}
