// Package report renders repayment schedules as printable PDF documents.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

var (
	monthlyHeaders = []string{"#", "Month", "Payment", "Principal", "Interest", "Balance"}
	monthlyWidths  = []float64{12, 24, 36, 36, 36, 36}
	yearlyHeaders  = []string{"Year", "Payments", "Principal", "Interest", "Closing Balance"}
	yearlyWidths   = []float64{24, 24, 44, 44, 44}
)

type scheduleReport struct {
	pdf *fpdf.Fpdf
}

// SchedulePDF renders the summary of result followed by the schedule. When
// yearly is set the table holds one row per calendar year instead of one row
// per payment.
func SchedulePDF(title string, terms amortization.LoanTerms, result amortization.Result, schedule []loans.Payment, yearly bool) ([]byte, error) {
	r := &scheduleReport{pdf: fpdf.New("P", "mm", "A4", "")}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle(title, true)
	r.pdf.AliasNbPages("")
	r.pdf.SetFooterFunc(r.footer)

	r.pdf.AddPage()
	r.drawSectionHeader(title)
	r.drawSummary(terms, result)
	r.pdf.Ln(6)

	if yearly {
		summaries, err := loans.SummarizeByYear(schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize schedule: %w", err)
		}
		r.drawSectionHeader("Yearly Summary")
		r.drawYearly(summaries)
	} else {
		r.drawSectionHeader("Repayment Schedule")
		r.drawMonthly(schedule)
	}

	if err := r.pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *scheduleReport) drawSummary(terms amortization.LoanTerms, result amortization.Result) {
	rounded := result.Rounded()
	rows := [][2]string{
		{"Loan Amount", money(terms.Principal)},
		{"Interest Rate", format.Percent(terms.AnnualRatePercent) + " p.a."},
		{"Tenure", fmt.Sprintf("%s (%d months)", format.Tenure(terms.TermMonths), terms.TermMonths)},
		{"Monthly EMI", money(rounded.PeriodicPayment)},
		{"Total Interest", money(rounded.TotalInterest)},
		{"Total Payment", money(rounded.TotalPayment)},
	}

	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetTextColor(50, 50, 50)
	for i, row := range rows {
		border := "LR"
		switch i {
		case 0:
			border = "LRT"
		case len(rows) - 1:
			border = "LRB"
		}
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(contentWidth/2, 7, row[0], border, 0, "L", true, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(contentWidth/2, 7, row[1], border, 1, "R", true, 0, "")
	}
}

func (r *scheduleReport) drawMonthly(schedule []loans.Payment) {
	r.drawTableHeader(monthlyHeaders, monthlyWidths)
	if len(schedule) == 0 {
		r.drawEmpty()
		return
	}

	for _, p := range schedule {
		if r.pageBreakNeeded() {
			r.pdf.AddPage()
			r.drawTableHeader(monthlyHeaders, monthlyWidths)
		}
		r.drawTableRow([]string{
			strconv.Itoa(p.Number),
			p.Month,
			format.IndianGrouping(p.Payment, 2),
			format.IndianGrouping(p.Principal, 2),
			format.IndianGrouping(p.Interest, 2),
			format.IndianGrouping(p.RemainingPrincipal, 2),
		}, monthlyWidths, false)
	}

	payment, interest := loans.Totals(schedule)
	r.drawTableRow([]string{
		"", "Total",
		format.IndianGrouping(payment, 2),
		format.IndianGrouping(payment-interest, 2),
		format.IndianGrouping(interest, 2),
		"",
	}, monthlyWidths, true)
}

func (r *scheduleReport) drawYearly(summaries []loans.YearSummary) {
	r.drawTableHeader(yearlyHeaders, yearlyWidths)
	if len(summaries) == 0 {
		r.drawEmpty()
		return
	}

	for _, s := range summaries {
		if r.pageBreakNeeded() {
			r.pdf.AddPage()
			r.drawTableHeader(yearlyHeaders, yearlyWidths)
		}
		r.drawTableRow([]string{
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Payments),
			format.IndianGrouping(s.Principal, 2),
			format.IndianGrouping(s.Interest, 2),
			format.IndianGrouping(s.ClosingBalance, 2),
		}, yearlyWidths, false)
	}
}

func (r *scheduleReport) drawEmpty() {
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 6, "No payments: the loan terms cannot be calculated.", "1", 1, "C", false, 0, "")
}

func (r *scheduleReport) pageBreakNeeded() bool {
	_, pageHeight := r.pdf.GetPageSize()
	return r.pdf.GetY()+5 > pageHeight-marginBottom
}

func (r *scheduleReport) footer() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 10,
		fmt.Sprintf("Page %d of {nb}. Figures are estimates and not a lending offer.", r.pdf.PageNo()),
		"", 0, "C", false, 0, "")
}

func (r *scheduleReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *scheduleReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 1 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *scheduleReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 1 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

// money renders an amount for the core PDF fonts, which have no rupee glyph.
func money(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + "Rs. " + format.IndianGrouping(math.Abs(amount), 0)
}
