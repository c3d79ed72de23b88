// Package billing holds the jurisdiction rules printed on invoices: which
// legal entity the money is remitted to, which tax ids appear, and when the
// per-region pricing epoch began.
package billing

import "time"

// EntityCutover is the date the Meridian acquisition took effect for
// invoicing. Invoices dated before it are remitted to the legacy entity.
var EntityCutover = time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC)

// DCPricingCutover is the date invoices gained per-region pricing and with
// it the Region column.
var DCPricingCutover = time.Date(2023, time.October, 5, 0, 0, 0, 0, time.UTC)

// Address is an immutable remit-to address. Callers always receive a fresh
// value; the table below is never handed out by reference.
type Address struct {
	Entity   string
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
}

// Lines renders the address block. The state line is omitted for addresses
// outside the US and Canada.
func (a Address) Lines() []string {
	lines := []string{a.Entity, a.Address1}
	if a.Address2 != "" {
		lines = append(lines, a.Address2)
	}
	cityLine := a.City
	if a.State != "" && (a.Country == "US" || a.Country == "CA") {
		cityLine += ", " + a.State
	}
	if a.Zip != "" {
		cityLine += " " + a.Zip
	}
	lines = append(lines, cityLine, a.Country)
	return lines
}

var (
	legacyAddress = Address{
		Entity:   "Nimbus Cloud, LLC",
		Address1: "800 Walnut Street",
		City:     "Philadelphia",
		State:    "PA",
		Zip:      "19106",
		Country:  "US",
	}

	meridianNorthAmerica = Address{
		Entity:   "Meridian Technologies, Inc.",
		Address1: "200 Kendall Square",
		City:     "Cambridge",
		State:    "MA",
		Zip:      "02142",
		Country:  "US",
	}

	meridianInternational = Address{
		Entity:   "Meridian Technologies International AG",
		Address1: "Baarerstrasse 12",
		City:     "Zug",
		Zip:      "6300",
		Country:  "CH",
	}
)

// RemitAddress picks the remit-to address for an invoice. The branch table:
//
//	invoice before entity cutover        -> legacy address
//	country US                           -> legacy address, Meridian entity name
//	country CA                           -> Meridian North American address
//	anything else                        -> Meridian international address
//
// Pure function of (country, invoice date); returns a fresh Address value on
// every call.
func RemitAddress(country string, invoiceDate time.Time) Address {
	if invoiceDate.Before(EntityCutover) {
		return legacyAddress
	}
	switch country {
	case "US":
		addr := legacyAddress
		addr.Entity = meridianNorthAmerica.Entity
		return addr
	case "CA":
		return meridianNorthAmerica
	default:
		return meridianInternational
	}
}

// ShowRegionColumn reports whether exports for an invoice carry a Region
// column: the pricing-epoch flag must be on and the invoice must be dated
// on or after the cutover.
func ShowRegionColumn(invoiceDate time.Time, dcSpecificPricing bool) bool {
	return dcSpecificPricing && !invoiceDate.Before(DCPricingCutover)
}
