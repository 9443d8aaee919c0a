package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"taxdesk/internal/domain/taxcalc"
	"taxdesk/internal/platform/format"
)

const ContentType = "application/pdf"

// RegimeComparison renders a one-page A4 summary of both regimes for the given input.
// Core PDF fonts have no rupee glyph, so amounts are written as "Rs.".
func RegimeComparison(in taxcalc.TaxInput, cmp taxcalc.Comparison, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Income Tax Regime Comparison", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Income Tax Regime Comparison")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Financial year %s  |  Generated %s", cmp.FinancialYear, generated.Format("02 Jan 2006 15:04 MST")))
	pdf.Ln(10)

	section(pdf, "Inputs")
	row(pdf, "Gross salary", format.Rupees(in.Salary))
	row(pdf, "HRA exemption", format.Rupees(in.HRA))
	row(pdf, "LTA", format.Rupees(in.LTA))
	row(pdf, "Section 80C", format.Rupees(in.Deduction80C))
	row(pdf, "Section 80D", format.Rupees(in.Deduction80D))
	age := in.AgeCategory
	if age == "" {
		age = taxcalc.AgeBelow60
	}
	row(pdf, "Age category", age)
	pdf.Ln(4)

	regime(pdf, "Old regime", cmp.OldRegime)
	regime(pdf, "New regime", cmp.NewRegime)

	section(pdf, "Recommendation")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("The %s regime saves %s.", cmp.Recommended, format.Rupees(cmp.Savings)))
	pdf.Ln(8)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render regime report")
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 6, value, "", 0, "R", false, 0, "")
	pdf.Ln(6)
}

func regime(pdf *gofpdf.Fpdf, title string, r taxcalc.RegimeResult) {
	section(pdf, title)
	row(pdf, "Taxable income", format.Rupees(r.TaxableIncome))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 6, "Slab", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Rate", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Tax", "1", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range r.Slabs {
		pdf.CellFormat(70, 6, s.Range, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, s.Rate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, format.Rupees(s.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(2)

	row(pdf, "Tax before cess", format.Rupees(r.BaseTax))
	if r.Rebate > 0 {
		row(pdf, "Rebate u/s 87A", "-"+format.Rupees(r.Rebate))
	}
	row(pdf, "Health & education cess (4%)", format.Rupees(r.Cess))
	row(pdf, "Total tax", format.Rupees(r.TotalTax))
	row(pdf, "Effective rate", fmt.Sprintf("%.2f%%", r.EffectiveRate))
	pdf.Ln(4)
}
