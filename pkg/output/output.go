// Package output renders calculator results as pretty terminal tables, CSV or
// JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/validation"
)

type renderer struct {
	pretty func() string
	header []string
	rows   [][]string
	value  interface{}
}

func write(w io.Writer, outputFormat string, r renderer) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	switch outputFormat {
	case constants.OutputFormatCSV:
		return writeCSV(w, r.header, r.rows)
	case constants.OutputFormatJSON:
		return JSON(w, r.value)
	default:
		_, err := io.WriteString(w, r.pretty())
		return err
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// EMI writes a single EMI quote.
func EMI(w io.Writer, outputFormat string, q calculator.EMIQuote) error {
	return write(w, outputFormat, renderer{
		pretty: func() string {
			var b strings.Builder
			b.WriteString(RenderTitle("EMI CALCULATION"))
			b.WriteString("\n")
			b.WriteString(RenderTable(Table{
				Headers: []string{"Item", "Value"},
				Rows: [][]string{
					{"Loan Amount", format.INR(q.Terms.Principal)},
					{"Interest Rate", format.Percent(q.Terms.AnnualRatePercent)},
					{"Tenure", format.Tenure(q.Terms.TermMonths)},
					{separatorRow},
					{"Monthly EMI", format.INR(q.Rounded.PeriodicPayment)},
					{"Total Interest", format.INR(q.Rounded.TotalInterest)},
					{"Total Payment", format.INR(q.Rounded.TotalPayment)},
				},
			}))
			b.WriteString(renderWarnings(q.Warnings))
			return b.String()
		},
		header: []string{"principal", "annualRatePercent", "termMonths", "periodicPayment", "totalPayment", "totalInterest"},
		rows: [][]string{{
			num(q.Terms.Principal), num(q.Terms.AnnualRatePercent), strconv.Itoa(q.Terms.TermMonths),
			num(q.Result.PeriodicPayment), num(q.Result.TotalPayment), num(q.Result.TotalInterest),
		}},
		value: q,
	})
}

// Affordability writes an eligibility quote.
func Affordability(w io.Writer, outputFormat string, q calculator.AffordabilityQuote) error {
	return write(w, outputFormat, renderer{
		pretty: func() string {
			var b strings.Builder
			b.WriteString(RenderTitle("LOAN ELIGIBILITY"))
			b.WriteString("\n")
			b.WriteString(RenderTable(Table{
				Headers: []string{"Item", "Value"},
				Rows: [][]string{
					{"Monthly Income", format.INR(q.Input.MonthlyIncome)},
					{"Existing Obligations", format.INR(q.Input.ExistingObligations)},
					{"Ceiling Ratio", format.Percent(q.Input.CeilingRatio * constants.PercentageMultiplier)},
					{"Interest Rate", format.Percent(q.Input.AnnualRatePercent)},
					{"Tenure", format.Tenure(q.Input.TermMonths)},
					{separatorRow},
					{"Affordable EMI", format.INR(q.Rounded.MaxAffordablePayment)},
					{"Eligible Loan Amount", format.INR(q.Rounded.MaxPrincipal)},
					{"", format.Compact(q.Rounded.MaxPrincipal)},
				},
			}))
			b.WriteString(renderWarnings(q.Warnings))
			return b.String()
		},
		header: []string{"monthlyIncome", "existingObligations", "annualRatePercent", "termMonths", "ceilingRatio", "maxAffordablePayment", "maxPrincipal"},
		rows: [][]string{{
			num(q.Input.MonthlyIncome), num(q.Input.ExistingObligations), num(q.Input.AnnualRatePercent),
			strconv.Itoa(q.Input.TermMonths), strconv.FormatFloat(q.Input.CeilingRatio, 'f', -1, 64),
			num(q.Result.MaxAffordablePayment), num(q.Result.MaxPrincipal),
		}},
		value: q,
	})
}

// Comparison writes a two-rate comparison.
func Comparison(w io.Writer, outputFormat string, q calculator.ComparisonQuote) error {
	c, r := q.Comparison, q.Rounded
	return write(w, outputFormat, renderer{
		pretty: func() string {
			var b strings.Builder
			b.WriteString(RenderTitle("RATE COMPARISON"))
			b.WriteString("\n")
			b.WriteString(RenderTable(Table{
				Headers: []string{"", "Base", "Alternative", "Difference"},
				Rows: [][]string{
					{"Monthly EMI", format.INR(r.Base.PeriodicPayment), format.INR(r.Alternative.PeriodicPayment),
						renderDelta(r.PaymentDelta, format.INR(r.PaymentDelta))},
					{"Total Interest", format.INR(r.Base.TotalInterest), format.INR(r.Alternative.TotalInterest),
						renderDelta(r.InterestDelta, format.INR(r.InterestDelta))},
					{"Total Payment", format.INR(r.Base.TotalPayment), format.INR(r.Alternative.TotalPayment),
						renderDelta(r.TotalPaymentDelta, format.INR(r.TotalPaymentDelta))},
				},
			}))
			b.WriteString(renderWarnings(q.Warnings))
			return b.String()
		},
		header: []string{"scenario", "periodicPayment", "totalPayment", "totalInterest"},
		rows: [][]string{
			{"base", num(c.Base.PeriodicPayment), num(c.Base.TotalPayment), num(c.Base.TotalInterest)},
			{"alternative", num(c.Alternative.PeriodicPayment), num(c.Alternative.TotalPayment), num(c.Alternative.TotalInterest)},
			{"delta", num(c.PaymentDelta), num(c.TotalPaymentDelta), num(c.InterestDelta)},
		},
		value: q,
	})
}

// Tax writes a tax savings estimate.
func Tax(w io.Writer, outputFormat string, q calculator.TaxQuote) error {
	t, r := q.Result, q.Rounded
	return write(w, outputFormat, renderer{
		pretty: func() string {
			var b strings.Builder
			b.WriteString(RenderTitle("HOME LOAN TAX SAVINGS"))
			b.WriteString("\n")
			b.WriteString(RenderTable(Table{
				Headers: []string{"", "Annual", "Deductible", "Tax Saved"},
				Rows: [][]string{
					{"Interest", format.INR(r.AnnualInterest), format.INR(r.DeductibleInterest), format.INR(r.InterestSaving)},
					{"Principal", format.INR(r.AnnualPrincipal), format.INR(r.DeductiblePrincipal), format.INR(r.PrincipalSaving)},
					{separatorRow},
					{"Total", "", "", goodStyle.Render(format.INR(r.TotalSaving))},
				},
			}))
			b.WriteString(renderWarnings(q.Warnings))
			return b.String()
		},
		header: []string{"component", "annual", "deductible", "saving"},
		rows: [][]string{
			{"interest", num(t.AnnualInterest), num(t.DeductibleInterest), num(t.InterestSaving)},
			{"principal", num(t.AnnualPrincipal), num(t.DeductiblePrincipal), num(t.PrincipalSaving)},
			{"total", "", "", num(t.TotalSaving)},
		},
		value: q,
	})
}

// Schedule writes a repayment schedule. When the quote carries a yearly
// summary that is written instead of the monthly rows.
func Schedule(w io.Writer, outputFormat string, q calculator.ScheduleQuote) error {
	yearly := q.Years != nil
	r := renderer{value: q}

	if yearly {
		r.header = []string{"year", "payments", "principal", "interest", "closingBalance"}
		for _, y := range q.Years {
			r.rows = append(r.rows, []string{
				strconv.Itoa(y.Year), strconv.Itoa(y.Payments), num(y.Principal), num(y.Interest), num(y.ClosingBalance),
			})
		}
	} else {
		r.header = []string{"number", "month", "payment", "principal", "interest", "remainingPrincipal"}
		for _, p := range q.Payments {
			r.rows = append(r.rows, []string{
				strconv.Itoa(p.Number), p.Month, num(p.Payment), num(p.Principal), num(p.Interest), num(p.RemainingPrincipal),
			})
		}
	}

	r.pretty = func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("REPAYMENT SCHEDULE"))
		b.WriteString("\n")

		table := Table{}
		if yearly {
			table.Headers = []string{"Year", "Payments", "Principal", "Interest", "Closing Balance"}
			for _, y := range q.Years {
				table.Rows = append(table.Rows, []string{
					strconv.Itoa(y.Year), strconv.Itoa(y.Payments),
					format.INR(y.Principal), format.INR(y.Interest), format.INR(y.ClosingBalance),
				})
			}
		} else {
			table.Headers = []string{"#", "Month", "EMI", "Principal", "Interest", "Balance"}
			for _, p := range q.Payments {
				table.Rows = append(table.Rows, []string{
					strconv.Itoa(p.Number), p.Month,
					format.INRWithPaise(p.Payment), format.INRWithPaise(p.Principal),
					format.INRWithPaise(p.Interest), format.INRWithPaise(p.RemainingPrincipal),
				})
			}
		}

		payment, interest := loans.Totals(q.Payments)
		table.Rows = append(table.Rows, []string{separatorRow})
		table.Rows = append(table.Rows, totalsRow(yearly, payment, interest))
		b.WriteString(RenderTable(table))
		fmt.Fprintf(&b, "  %d payments of %s over %s\n",
			len(q.Payments), format.INR(q.Result.Rounded().PeriodicPayment), format.Tenure(q.Terms.TermMonths))
		b.WriteString(renderWarnings(q.Warnings))
		return b.String()
	}

	return write(w, outputFormat, r)
}

func totalsRow(yearly bool, payment, interest float64) []string {
	if yearly {
		return []string{"Total", "", format.INR(payment - interest), format.INR(interest), ""}
	}
	return []string{"Total", "", format.INRWithPaise(payment), format.INRWithPaise(payment - interest), format.INRWithPaise(interest), ""}
}

// Offers writes ranked lender quotes.
func Offers(w io.Writer, outputFormat string, quotes []calculator.OfferQuote) error {
	r := renderer{
		header: []string{"rank", "lender", "product", "annualRatePercent", "termMonths", "periodicPayment",
			"totalPayment", "processingFee", "totalCost", "eligible", "reason"},
		value: quotes,
	}
	for i, q := range quotes {
		r.rows = append(r.rows, []string{
			strconv.Itoa(i + 1), q.Offer.Lender, q.Offer.Product, num(q.Offer.Rate), strconv.Itoa(q.Terms.TermMonths),
			num(q.Result.PeriodicPayment), num(q.Result.TotalPayment), num(q.ProcessingFee), num(q.TotalCost),
			strconv.FormatBool(q.Eligible), q.Reason,
		})
	}

	r.pretty = func() string {
		var b strings.Builder
		b.WriteString(RenderTitle("LENDER OFFERS"))
		b.WriteString("\n")
		table := Table{Headers: []string{"Lender", "Rate", "Tenure", "EMI", "Fee", "Total Cost"}}
		var notes []string
		for _, q := range quotes {
			if !q.Eligible {
				table.Rows = append(table.Rows, []string{q.Offer.Lender, format.Percent(q.Offer.Rate), "-", "-", "-", "not eligible"})
				notes = append(notes, fmt.Sprintf("%s: %s", q.Offer.Lender, q.Reason))
				continue
			}
			rounded := q.Result.Rounded()
			table.Rows = append(table.Rows, []string{
				q.Offer.Lender, format.Percent(q.Offer.Rate), format.Tenure(q.Terms.TermMonths),
				format.INR(rounded.PeriodicPayment), format.INR(q.ProcessingFee), format.INR(q.TotalCost),
			})
		}
		if len(quotes) == 0 {
			table.Rows = append(table.Rows, []string{"no offers configured", "", "", "", "", ""})
		}
		b.WriteString(RenderTable(table))
		b.WriteString(renderWarnings(notes))
		return b.String()
	}

	return write(w, outputFormat, r)
}
