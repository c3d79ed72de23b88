package services

import (
	"bytes"
	"fmt"
	"time"

	"billing-export/internal/billing"
	"billing-export/internal/format"
	"billing-export/internal/models"
	"billing-export/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/samber/lo"
)

// pdfPageCapacity is the fixed number of item rows printed per page.
const pdfPageCapacity = 16

const (
	pdfLeftMargin = 10.0
	pdfRowHeight  = 11.5
	pdfLineHeight = 3.6
)

// GeneratePDF lays the invoice out into fixed-size printable pages and
// returns the document bytes plus its download filename. Errors are
// returned, never thrown; the on-screen view is unaffected by a failure
// here.
func (s *ExportService) GeneratePDF(inv *models.Invoice, items []models.InvoiceItem, regions []models.Region) (data []byte, filename string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf generation panicked: %v", r)
		}
	}()

	date, dateOK := s.invoiceDate(inv)
	showRegion := billing.ShowRegionColumn(date, s.cfg.Features.DCSpecificPricing)
	rows := format.BuildRows(items, regions)

	// Fixed-capacity chunking; concatenating the chunks reproduces the
	// item order exactly.
	pages := lo.Chunk(rows, pdfPageCapacity)
	if len(pages) == 0 {
		pages = append(pages, []format.Row{})
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfLeftMargin, 10, 10)
	pdf.SetAutoPageBreak(false, 0)

	for i, pageRows := range pages {
		pdf.AddPage()
		s.drawPageHeader(pdf, inv, date, dateOK, i+1, len(pages))
		s.drawItemTable(pdf, pageRows, showRegion)
		if i == len(pages)-1 {
			s.drawTotals(pdf, inv)
		}
		s.drawPageFooter(pdf)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	stamp := inv.Date
	if dateOK {
		stamp = timeutil.FormatIn(date, s.zone, timeutil.FileNameLayout)
	}
	return buf.Bytes(), fmt.Sprintf("invoice-%s.pdf", stamp), nil
}

func (s *ExportService) drawPageHeader(pdf *gofpdf.Fpdf, inv *models.Invoice, date time.Time, dateOK bool, page, pages int) {
	// Logo image when an asset is configured, text wordmark otherwise. A
	// broken image file puts gofpdf into its error state and fails the
	// whole export, which is the intended behavior.
	if s.cfg.Export.LogoPath != "" {
		pdf.ImageOptions(s.cfg.Export.LogoPath, pdfLeftMargin, 10, 40, 0, false, gofpdf.ImageOptions{}, 0, "")
		pdf.SetY(24)
	} else {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(60, 10, "Nimbus Cloud", "", 1, "L", false, 0, "")
	}

	topY := pdf.GetY()

	// Left column: page marker, invoice date, remit block, tax ids
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(95, 5, fmt.Sprintf("Page %d of %d", page, pages), "", 1, "L", false, 0, "")
	dateStr := ""
	if dateOK {
		dateStr = timeutil.FormatIn(date, s.zone, timeutil.DateLayout)
	}
	pdf.CellFormat(95, 5, "Invoice Date: "+dateStr, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(95, 5, "Remit to:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	remit := billing.RemitAddress(inv.Billing.Country, date)
	for _, line := range remit.Lines() {
		pdf.CellFormat(95, 4.5, line, "", 1, "L", false, 0, "")
	}
	for _, line := range billing.TaxIDLines(inv.Billing.Country, inv.Billing.State, date) {
		pdf.CellFormat(95, 4.5, line, "", 1, "L", false, 0, "")
	}
	leftBottom := pdf.GetY()

	// Right column: recipient block
	pdf.SetXY(105, topY)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(95, 5, "Invoice to:", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range recipientLines(inv.Billing) {
		pdf.CellFormat(95, 4.5, line, "", 2, "L", false, 0, "")
	}
	rightBottom := pdf.GetY()

	if leftBottom > rightBottom {
		pdf.SetY(leftBottom)
	} else {
		pdf.SetY(rightBottom)
	}
	pdf.SetX(pdfLeftMargin)
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Invoice #%d", inv.ID), "", 1, "L", false, 0, "")
}

func recipientLines(b models.BillingSnapshot) []string {
	var lines []string
	if b.Name != "" {
		lines = append(lines, b.Name)
	}
	if b.Company != "" {
		lines = append(lines, b.Company)
	}
	lines = append(lines, b.Address1)
	if b.Address2 != "" {
		lines = append(lines, b.Address2)
	}
	cityLine := b.City
	if b.State != "" {
		cityLine += ", " + b.State
	}
	if b.Zip != "" {
		cityLine += " " + b.Zip
	}
	lines = append(lines, cityLine, b.Country)
	if b.TaxID != "" {
		lines = append(lines, "Tax ID: "+b.TaxID)
	}
	return lines
}

// tableLayout returns column widths and headers; both variants sum to the
// 190mm printable width.
func tableLayout(showRegion bool) ([]float64, []string) {
	if showRegion {
		return []float64{40, 21, 21, 14, 24, 18, 18, 16, 18},
			[]string{"Description", "From", "To", "Quantity", "Region", "Unit Price", "Amount (USD)", "Tax (USD)", "Total (USD)"}
	}
	return []float64{64, 21, 21, 14, 18, 18, 16, 18},
		[]string{"Description", "From", "To", "Quantity", "Unit Price", "Amount (USD)", "Tax (USD)", "Total (USD)"}
}

func (s *ExportService) drawItemTable(pdf *gofpdf.Fpdf, rows []format.Row, showRegion bool) {
	widths, headers := tableLayout(showRegion)

	pdf.SetFont("Arial", "B", 7)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		s.drawItemRow(pdf, row, widths, showRegion)
	}
}

// drawItemRow draws one multi-line row: the description spans up to three
// lines and each timestamp splits into a date line and a time line.
func (s *ExportService) drawItemRow(pdf *gofpdf.Fpdf, row format.Row, widths []float64, showRegion bool) {
	cells := []string{
		row.Description,
		joinLines(row.FromDate, row.FromTime),
		joinLines(row.ToDate, row.ToTime),
		row.Quantity,
	}
	if showRegion {
		cells = append(cells, row.Region)
	}
	cells = append(cells, row.UnitPrice, row.Amount, row.Tax, row.Total)

	x := pdfLeftMargin
	y := pdf.GetY()
	for i, cell := range cells {
		pdf.Rect(x, y, widths[i], pdfRowHeight, "D")
		pdf.SetXY(x+0.8, y+0.8)
		align := "L"
		if i == 3 || i >= len(cells)-4 {
			align = "R"
		}
		pdf.MultiCell(widths[i]-1.6, pdfLineHeight, cell, "", align, false)
		x += widths[i]
	}
	pdf.SetXY(pdfLeftMargin, y+pdfRowHeight)
}

func joinLines(date, clock string) string {
	if date == "" && clock == "" {
		return ""
	}
	return date + "\n" + clock
}

func (s *ExportService) drawTotals(pdf *gofpdf.Fpdf, inv *models.Invoice) {
	// A full final page leaves no room under the table.
	if pdf.GetY() > 225 {
		s.drawPageFooter(pdf)
		pdf.AddPage()
	}
	pdf.Ln(4)

	line := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 9)
		pdf.SetX(110)
		pdf.CellFormat(55, 6, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, value, "1", 1, "R", false, 0, "")
	}

	line("Subtotal (USD)", format.Money(inv.Subtotal), false)
	for _, tax := range inv.TaxSummary {
		line(tax.Name+" (USD)", format.Money(tax.Tax), false)
	}
	line("Tax Subtotal (USD)", format.Money(inv.Tax), false)
	line("Total (USD)", format.Money(inv.Total), true)

	if banner := s.cfg.Features.TaxBanner; banner != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetX(pdfLeftMargin)
		pdf.MultiCell(190, 4, banner, "", "L", false)
	}
}

func (s *ExportService) drawPageFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(190, 5, "Nimbus Cloud  |  https://cloud.nimbuscloud.example  |  billing@nimbuscloud.example", "", 1, "C", false, 0, "")
}
