package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"go.uber.org/zap"
)

func newCalculator(t *testing.T) *calculator.Calculator {
	t.Helper()
	calc, err := calculator.New(zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("calculator.New() error = %v", err)
	}
	return calc
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	return records
}

func TestEMIFormats(t *testing.T) {
	quote := newCalculator(t).EMI(amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36})

	var pretty bytes.Buffer
	if err := EMI(&pretty, constants.OutputFormatPretty, quote); err != nil {
		t.Fatalf("EMI(pretty) error = %v", err)
	}
	for _, want := range []string{"EMI CALCULATION", "₹5,00,000", "₹16,251", "10.50%", "3 yrs"} {
		if !strings.Contains(pretty.String(), want) {
			t.Errorf("pretty output missing %q:\n%s", want, pretty.String())
		}
	}

	var csvOut bytes.Buffer
	if err := EMI(&csvOut, constants.OutputFormatCSV, quote); err != nil {
		t.Fatalf("EMI(csv) error = %v", err)
	}
	records := readCSV(t, csvOut.String())
	if len(records) != 2 {
		t.Fatalf("expected header and one row, got %d records", len(records))
	}
	if records[0][3] != "periodicPayment" || records[1][3] != "16251.22" {
		t.Errorf("unexpected EMI CSV: %v", records)
	}

	var jsonOut bytes.Buffer
	if err := EMI(&jsonOut, constants.OutputFormatJSON, quote); err != nil {
		t.Fatalf("EMI(json) error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(jsonOut.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	rounded, ok := decoded["rounded"].(map[string]interface{})
	if !ok || rounded["periodicPayment"] != 16251.0 {
		t.Errorf("unexpected JSON rounded result: %v", decoded["rounded"])
	}
}

func TestInvalidFormat(t *testing.T) {
	quote := newCalculator(t).EMI(amortization.LoanTerms{Principal: 1000, AnnualRatePercent: 10, TermMonths: 12})
	if err := EMI(&bytes.Buffer{}, "xml", quote); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestComparisonCSV(t *testing.T) {
	quote := newCalculator(t).Compare(500000, 36, 10.5, 12.5)

	var out bytes.Buffer
	if err := Comparison(&out, constants.OutputFormatCSV, quote); err != nil {
		t.Fatalf("Comparison() error = %v", err)
	}
	records := readCSV(t, out.String())
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[3][0] != "delta" || records[3][1] != "475.59" {
		t.Errorf("unexpected delta row: %v", records[3])
	}
}

func TestComparisonPretty(t *testing.T) {
	quote := newCalculator(t).Compare(500000, 36, 10.5, 12.5)

	var out bytes.Buffer
	if err := Comparison(&out, constants.OutputFormatPretty, quote); err != nil {
		t.Fatalf("Comparison() error = %v", err)
	}
	if !strings.Contains(out.String(), "+₹476") {
		t.Errorf("expected a positive EMI difference in output:\n%s", out.String())
	}
}

func TestAffordabilityAndTaxPretty(t *testing.T) {
	calc := newCalculator(t)

	var out bytes.Buffer
	afford := calc.Affordability(amortization.AffordabilityInput{
		MonthlyIncome: 100000, ExistingObligations: 20000, AnnualRatePercent: 10.5, TermMonths: 36,
	})
	if err := Affordability(&out, constants.OutputFormatPretty, afford); err != nil {
		t.Fatalf("Affordability() error = %v", err)
	}
	if !strings.Contains(out.String(), "₹44,000") || !strings.Contains(out.String(), "55.00%") {
		t.Errorf("unexpected affordability output:\n%s", out.String())
	}

	out.Reset()
	tax := calc.TaxSavings(amortization.TaxSavingsInput{LoanAmount: 3000000, AnnualRatePercent: 8.5})
	if err := Tax(&out, constants.OutputFormatPretty, tax); err != nil {
		t.Fatalf("Tax() error = %v", err)
	}
	if !strings.Contains(out.String(), "₹1,05,000") {
		t.Errorf("expected total saving in output:\n%s", out.String())
	}
}

func TestScheduleCSV(t *testing.T) {
	calc := newCalculator(t)
	terms := amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36}

	tests := []struct {
		name         string
		yearly       bool
		expectedRows int
		firstHeader  string
	}{
		{"Monthly", false, 37, "number"},
		{"Yearly", true, 5, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := calc.Schedule(terms, "2025-11", tt.yearly)
			if err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			var out bytes.Buffer
			if err := Schedule(&out, constants.OutputFormatCSV, quote); err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}
			records := readCSV(t, out.String())
			if len(records) != tt.expectedRows {
				t.Errorf("expected %d records, got %d", tt.expectedRows, len(records))
			}
			if records[0][0] != tt.firstHeader {
				t.Errorf("first header = %q, expected %q", records[0][0], tt.firstHeader)
			}
		})
	}
}

func TestSchedulePretty(t *testing.T) {
	quote, err := newCalculator(t).Schedule(amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36}, "2025-11", false)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	var out bytes.Buffer
	if err := Schedule(&out, constants.OutputFormatPretty, quote); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	for _, want := range []string{"2025-11", "2028-10", "₹4,375.00", "36 payments of ₹16,251 over 3 yrs"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("pretty schedule missing %q", want)
		}
	}
}

func TestOffers(t *testing.T) {
	quotes, err := newCalculator(t).QuoteOffers(3000000, 36, constants.ProductPersonalLoan)
	if err != nil {
		t.Fatalf("QuoteOffers() error = %v", err)
	}

	var out bytes.Buffer
	if err := Offers(&out, constants.OutputFormatCSV, quotes); err != nil {
		t.Fatalf("Offers() error = %v", err)
	}
	records := readCSV(t, out.String())
	if len(records) != len(quotes)+1 {
		t.Fatalf("expected %d records, got %d", len(quotes)+1, len(records))
	}
	if records[1][0] != "1" || records[1][9] != "true" {
		t.Errorf("unexpected first offer row: %v", records[1])
	}
	if records[2][9] != "false" || records[2][10] == "" {
		t.Errorf("expected ineligible offer with reason: %v", records[2])
	}

	out.Reset()
	if err := Offers(&out, constants.OutputFormatPretty, quotes); err != nil {
		t.Fatalf("Offers() error = %v", err)
	}
	if !strings.Contains(out.String(), "not eligible") || !strings.Contains(out.String(), "Sahyadri Bank") {
		t.Errorf("unexpected offers output:\n%s", out.String())
	}
}

func TestRenderTable(t *testing.T) {
	if RenderTable(Table{}) != "" {
		t.Error("expected empty output for an empty table")
	}

	rendered := RenderTable(Table{
		Title:   "Sample",
		Headers: []string{"Name", "Amount"},
		Rows:    [][]string{{"a", "₹1"}, {separatorRow}, {"longer name", "₹10,00,000"}},
	})
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), rendered)
	}
	// Every bordered line has the same display width.
	width := len([]rune(lines[1]))
	for _, l := range lines[1:] {
		if len([]rune(l)) != width {
			t.Errorf("line %q has width %d, expected %d", l, len([]rune(l)), width)
		}
	}
}

func TestRenderDeltaNeutralForNegligibleDifference(t *testing.T) {
	if got := renderDelta(0.004, "₹0"); got != "₹0" {
		t.Errorf("renderDelta(0.004) = %q, expected unsigned ₹0", got)
	}
	if got := renderDelta(-0.004, "₹0"); got != "₹0" {
		t.Errorf("renderDelta(-0.004) = %q, expected unsigned ₹0", got)
	}
	if got := renderDelta(476, "₹476"); !strings.Contains(got, "+₹476") {
		t.Errorf("renderDelta(476) = %q, expected +₹476", got)
	}
}
