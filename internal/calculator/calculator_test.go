package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/testutil"
	"go.uber.org/zap"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := New(zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return calc
}

func TestEMI(t *testing.T) {
	calc := newTestCalculator(t)

	quote := calc.EMI(amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36})
	testutil.AssertClose(t, "emi", quote.Result.PeriodicPayment, 16251.22, 0.01)
	if quote.Rounded.PeriodicPayment != 16251 {
		t.Errorf("Rounded.PeriodicPayment = %v, expected 16251", quote.Rounded.PeriodicPayment)
	}
	if len(quote.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", quote.Warnings)
	}
}

func TestEMIWarnings(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name     string
		terms    amortization.LoanTerms
		contains string
		zero     bool
	}{
		{"Principal above slider", amortization.LoanTerms{Principal: 5e7, AnnualRatePercent: 10, TermMonths: 60}, "principal", false},
		{"Rate below slider", amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 1, TermMonths: 60}, "annual rate", false},
		{"Zero term", amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10}, "result is zero", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := calc.EMI(tt.terms)
			if !strings.Contains(strings.Join(quote.Warnings, "\n"), tt.contains) {
				t.Errorf("expected warning containing %q, got %v", tt.contains, quote.Warnings)
			}
			if quote.Result.IsZero() != tt.zero {
				t.Errorf("Result.IsZero() = %v, expected %v", quote.Result.IsZero(), tt.zero)
			}
		})
	}
}

func TestAffordabilityUsesConfiguredCeiling(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	cfg.Calculator.CeilingRatio = 0.4
	calc, err := New(nil, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	quote := calc.Affordability(amortization.AffordabilityInput{
		MonthlyIncome:       100000,
		ExistingObligations: 20000,
		AnnualRatePercent:   10.5,
		TermMonths:          36,
	})
	if quote.Input.CeilingRatio != 0.4 {
		t.Errorf("CeilingRatio = %v, expected configured 0.4", quote.Input.CeilingRatio)
	}
	testutil.AssertClose(t, "max payment", quote.Result.MaxAffordablePayment, 32000, 1e-9)

	emi := amortization.Calculate(amortization.LoanTerms{
		Principal:         quote.Result.MaxPrincipal,
		AnnualRatePercent: 10.5,
		TermMonths:        36,
	})
	testutil.AssertClose(t, "round trip payment", emi.PeriodicPayment, 32000, 1e-6)
}

func TestAffordabilityExplicitCeiling(t *testing.T) {
	calc := newTestCalculator(t)

	quote := calc.Affordability(amortization.AffordabilityInput{
		MonthlyIncome:     100000,
		AnnualRatePercent: 10.5,
		TermMonths:        36,
		CeilingRatio:      1.5,
	})
	if quote.Input.CeilingRatio != 1 {
		t.Errorf("CeilingRatio = %v, expected clamp to 1", quote.Input.CeilingRatio)
	}
	testutil.AssertClose(t, "max payment", quote.Result.MaxAffordablePayment, 100000, 1e-9)
}

func TestAffordabilityObligationsExceedIncome(t *testing.T) {
	calc := newTestCalculator(t)

	quote := calc.Affordability(amortization.AffordabilityInput{
		MonthlyIncome:       50000,
		ExistingObligations: 60000,
		AnnualRatePercent:   10.5,
		TermMonths:          36,
	})
	if quote.Result.MaxPrincipal != 0 || quote.Result.MaxAffordablePayment != 0 {
		t.Errorf("expected zero eligibility, got %+v", quote.Result)
	}
	if len(quote.Warnings) == 0 {
		t.Error("expected a warning for obligations exceeding income")
	}
}

func TestCompare(t *testing.T) {
	calc := newTestCalculator(t)

	quote := calc.Compare(500000, 36, 10.5, 12.5)
	testutil.AssertClose(t, "payment delta", quote.Comparison.PaymentDelta, 475.59, 0.01)
	if quote.Rounded.PaymentDelta != 476 {
		t.Errorf("Rounded.PaymentDelta = %v, expected 476", quote.Rounded.PaymentDelta)
	}

	quote = calc.Compare(500000, 36, 10.5, 45)
	if len(quote.Warnings) != 1 || !strings.HasPrefix(quote.Warnings[0], "alternative: ") {
		t.Errorf("expected a single alternative warning, got %v", quote.Warnings)
	}
}

func TestTaxSavings(t *testing.T) {
	calc := newTestCalculator(t)

	quote := calc.TaxSavings(amortization.TaxSavingsInput{LoanAmount: 3000000, AnnualRatePercent: 8.5})
	if quote.Rounded.TotalSaving != 105000 {
		t.Errorf("Rounded.TotalSaving = %v, expected 105000", quote.Rounded.TotalSaving)
	}
	if len(quote.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", quote.Warnings)
	}

	quote = calc.TaxSavings(amortization.TaxSavingsInput{LoanAmount: -1, AnnualRatePercent: 8.5})
	if len(quote.Warnings) != 1 {
		t.Errorf("expected a warning for a zero estimate, got %v", quote.Warnings)
	}
}

func TestSchedule(t *testing.T) {
	calc := newTestCalculator(t)
	terms := amortization.LoanTerms{Principal: 500000, AnnualRatePercent: 10.5, TermMonths: 36}

	quote, err := calc.Schedule(terms, "2025-11", true)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(quote.Payments) != 36 {
		t.Errorf("expected 36 payments, got %d", len(quote.Payments))
	}
	if len(quote.Years) != 4 {
		t.Errorf("expected 4 yearly summaries, got %d", len(quote.Years))
	}
	testutil.AssertClose(t, "emi", quote.Result.PeriodicPayment, 16251.22, 0.01)

	quote, err = calc.Schedule(terms, "2025-11", false)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if quote.Years != nil {
		t.Errorf("expected no yearly summary, got %d", len(quote.Years))
	}

	if _, err := calc.Schedule(terms, "November", false); err == nil {
		t.Error("expected error for malformed start month")
	}
}

func TestScheduleRejectsOverlongTerm(t *testing.T) {
	calc := newTestCalculator(t)
	terms := amortization.LoanTerms{Principal: 500000, TermMonths: 2000000000}

	if _, err := calc.Schedule(terms, "2025-01", false); !errors.Is(err, loans.ErrTermTooLong) {
		t.Errorf("Schedule() error = %v, expected ErrTermTooLong", err)
	}
}

func TestQuoteOffers(t *testing.T) {
	calc := newTestCalculator(t)

	quotes, err := calc.QuoteOffers(500000, 36, constants.ProductPersonalLoan)
	if err != nil {
		t.Fatalf("QuoteOffers() error = %v", err)
	}

	expectedOrder := []string{"Sahyadri Bank", "Northstar Finance", "Kaveri Credit"}
	if len(quotes) != len(expectedOrder) {
		t.Fatalf("expected %d quotes, got %d", len(expectedOrder), len(quotes))
	}
	for i, lender := range expectedOrder {
		if quotes[i].Offer.Lender != lender {
			t.Errorf("quote %d lender = %s, expected %s", i, quotes[i].Offer.Lender, lender)
		}
		if !quotes[i].Eligible {
			t.Errorf("quote %d unexpectedly ineligible: %s", i, quotes[i].Reason)
		}
		if i > 0 && quotes[i].TotalCost < quotes[i-1].TotalCost {
			t.Errorf("quotes not ranked by total cost at %d", i)
		}
	}

	first := quotes[0]
	testutil.AssertClose(t, "processing fee", first.ProcessingFee, 5000, 1e-9)
	testutil.AssertClose(t, "total cost", first.TotalCost, first.Result.TotalPayment+5000, 1e-9)
}

func TestQuoteOffersEligibility(t *testing.T) {
	calc := newTestCalculator(t)

	quotes, err := calc.QuoteOffers(3000000, 36, constants.ProductPersonalLoan)
	if err != nil {
		t.Fatalf("QuoteOffers() error = %v", err)
	}
	if !quotes[0].Eligible || quotes[0].Offer.Lender != "Sahyadri Bank" {
		t.Errorf("expected the only eligible offer first, got %+v", quotes[0])
	}
	for _, q := range quotes[1:] {
		if q.Eligible {
			t.Errorf("expected %s to be ineligible", q.Offer.Lender)
		}
		if !strings.Contains(q.Reason, "lender maximum") {
			t.Errorf("unexpected reason %q", q.Reason)
		}
		if q.TotalCost != 0 {
			t.Errorf("ineligible quote carries a total cost: %v", q.TotalCost)
		}
	}
}

func TestQuoteOffersCapsTerm(t *testing.T) {
	calc := newTestCalculator(t)

	quotes, err := calc.QuoteOffers(100000, 36, constants.ProductCreditCard)
	if err != nil {
		t.Fatalf("QuoteOffers() error = %v", err)
	}
	for _, q := range quotes {
		if q.Terms.TermMonths != q.Offer.MaxTermMonths {
			t.Errorf("%s term = %d, expected cap %d", q.Offer.Lender, q.Terms.TermMonths, q.Offer.MaxTermMonths)
		}
		if math.IsNaN(q.TotalCost) || q.TotalCost <= 100000 {
			t.Errorf("%s total cost %v should exceed principal", q.Offer.Lender, q.TotalCost)
		}
	}
}

func TestQuoteOffersUnknownProduct(t *testing.T) {
	calc := newTestCalculator(t)

	if _, err := calc.QuoteOffers(100000, 36, "car-loan"); err == nil {
		t.Error("expected error for unknown product")
	}
}
