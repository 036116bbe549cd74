package loans

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"go.uber.org/zap"
)

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           float64
	}{
		{
			name:               "Personal loan first month",
			remainingPrincipal: 500000,
			annualInterestRate: 10.5,
			expected:           4375.0, // 500000 * 0.105 / 12
		},
		{
			name:               "Car loan interest",
			remainingPrincipal: 15000,
			annualInterestRate: 4.5,
			expected:           56.25,
		},
		{
			name:               "Zero interest",
			remainingPrincipal: 10000,
			annualInterestRate: 0.0,
			expected:           0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualInterestRate)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestGenerateSchedule(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())
	terms := amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36}

	schedule, err := generator.GenerateSchedule(terms, "2025-11")
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 36 {
		t.Fatalf("expected 36 payments, got %d", len(schedule))
	}

	first := schedule[0]
	if first.Month != "2025-11" || first.Number != 1 {
		t.Errorf("unexpected first row: %+v", first)
	}
	if math.Abs(first.Interest-4375) > 0.01 {
		t.Errorf("first interest = %.2f, expected 4375.00", first.Interest)
	}
	if math.Abs(first.Principal-(16251.22-4375)) > 0.01 {
		t.Errorf("first principal = %.2f, expected 11876.22", first.Principal)
	}

	if schedule[2].Month != "2026-01" {
		t.Errorf("third payment month = %s, expected 2026-01", schedule[2].Month)
	}

	last := schedule[len(schedule)-1]
	if last.Month != "2028-10" {
		t.Errorf("last month = %s, expected 2028-10", last.Month)
	}
	if last.RemainingPrincipal != 0 {
		t.Errorf("expected zero remaining principal, got %.6f", last.RemainingPrincipal)
	}

	var principalSum float64
	for i, p := range schedule {
		principalSum += p.Principal
		if i > 0 && p.Interest > schedule[i-1].Interest {
			t.Errorf("interest increased at payment %d", p.Number)
		}
	}
	if math.Abs(principalSum-terms.Principal) > 1e-6 {
		t.Errorf("principal repaid = %.6f, expected %.2f", principalSum, terms.Principal)
	}

	totalPayment, totalInterest := Totals(schedule)
	result := amortization.Calculate(terms)
	if math.Abs(totalPayment-result.TotalPayment) > 0.01 {
		t.Errorf("schedule total %.2f differs from engine total %.2f", totalPayment, result.TotalPayment)
	}
	if math.Abs(totalInterest-result.TotalInterest) > 0.01 {
		t.Errorf("schedule interest %.2f differs from engine interest %.2f", totalInterest, result.TotalInterest)
	}
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	generator := NewScheduleGenerator(nil)
	schedule, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 1200, TermMonths: 12}, "2025-01")
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 12 {
		t.Fatalf("expected 12 payments, got %d", len(schedule))
	}
	for _, p := range schedule {
		if math.Abs(p.Payment-100) > 1e-9 || p.Interest != 0 {
			t.Errorf("unexpected zero-rate row: %+v", p)
		}
	}
}

func TestGenerateScheduleInvalid(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())

	schedule, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 0, AnnualRatePercent: 10, TermMonths: 12}, "2025-01")
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 0 {
		t.Errorf("expected empty schedule, got %d rows", len(schedule))
	}

	if _, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 1000, TermMonths: 12}, "2025-1"); err == nil {
		t.Error("expected error for malformed start month")
	}
}

func TestGenerateScheduleTermLimit(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())

	for _, term := range []int{constants.MaxScheduleMonths + 1, 3000000, 2000000000} {
		_, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 500000, TermMonths: term}, "2025-01")
		if !errors.Is(err, ErrTermTooLong) {
			t.Errorf("GenerateSchedule(term %d) error = %v, expected ErrTermTooLong", term, err)
		}
	}

	schedule, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 8.5, TermMonths: constants.MaxScheduleMonths}, "2025-01")
	if err != nil {
		t.Fatalf("GenerateSchedule() at the limit error = %v", err)
	}
	if len(schedule) != constants.MaxScheduleMonths {
		t.Errorf("expected %d payments, got %d", constants.MaxScheduleMonths, len(schedule))
	}
}

func TestSummarizeByYear(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())
	schedule, err := generator.GenerateSchedule(amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36}, "2025-11")
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	summaries, err := SummarizeByYear(schedule)
	if err != nil {
		t.Fatalf("SummarizeByYear() error = %v", err)
	}

	expected := []struct {
		year     int
		payments int
	}{
		{2025, 2},
		{2026, 12},
		{2027, 12},
		{2028, 10},
	}
	if len(summaries) != len(expected) {
		t.Fatalf("expected %d years, got %d", len(expected), len(summaries))
	}
	var principal float64
	for i, e := range expected {
		if summaries[i].Year != e.year || summaries[i].Payments != e.payments {
			t.Errorf("summary %d = %+v, expected year %d with %d payments", i, summaries[i], e.year, e.payments)
		}
		principal += summaries[i].Principal
	}
	if math.Abs(principal-500000) > 1e-6 {
		t.Errorf("summed principal = %.6f, expected 500000", principal)
	}
	if summaries[len(summaries)-1].ClosingBalance != 0 {
		t.Errorf("expected final closing balance of 0")
	}
}

func TestSummarizeByYearInvalidMonth(t *testing.T) {
	if _, err := SummarizeByYear([]Payment{{Month: "bogus"}}); err == nil {
		t.Error("expected error for invalid month")
	}
}
