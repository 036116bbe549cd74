// Package amortization is the shared loan math used by every calculator
// surface: fixed-rate EMI computation, its inverse (maximum principal for a
// payment budget), two-rate comparison and the simplified tax-deduction
// estimate.
//
// Every function is total over its numeric domain. Invalid or degenerate
// inputs produce zero-valued results instead of errors, NaN or infinities, so
// callers can feed slider values straight in on every change.
package amortization

import (
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// LoanTerms describes a single fully amortizing loan.
type LoanTerms struct {
	Principal         float64 `json:"principal" yaml:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
	TermMonths        int     `json:"termMonths" yaml:"termMonths"`
}

// Valid reports whether the terms are inside the domain of the forward
// calculation: positive finite principal, non-negative finite rate and a
// positive term.
func (t LoanTerms) Valid() bool {
	return t.TermMonths > 0 &&
		mathutil.AllFinite(t.Principal, t.AnnualRatePercent) &&
		t.Principal > 0 &&
		t.AnnualRatePercent >= 0
}

// Result holds the derived figures for one LoanTerms. Values are raw float64;
// use Rounded for display.
type Result struct {
	PeriodicPayment float64 `json:"periodicPayment"`
	TotalPayment    float64 `json:"totalPayment"`
	TotalInterest   float64 `json:"totalInterest"`
}

// Rounded returns a copy with every field rounded to the nearest whole
// currency unit.
func (r Result) Rounded() Result {
	return Result{
		PeriodicPayment: mathutil.RoundUnits(r.PeriodicPayment),
		TotalPayment:    mathutil.RoundUnits(r.TotalPayment),
		TotalInterest:   mathutil.RoundUnits(r.TotalInterest),
	}
}

// IsZero reports whether r is the zero result returned for invalid input.
func (r Result) IsZero() bool {
	return r == Result{}
}

// MonthlyRate converts an annual nominal percentage into a monthly fraction,
// e.g. 10.5 -> 0.00875.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.MonthsPerYear / constants.PercentageMultiplier
}

// annuityFactor returns 1 - (1+r)^-n, computed without forming (1+r)^n so
// that long terms at high rates cannot overflow.
func annuityFactor(r float64, n int) float64 {
	return -math.Expm1(-float64(n) * math.Log1p(r))
}

// Calculate computes the fixed monthly payment for terms using the standard
// amortization formula P*r*(1+r)^N / ((1+r)^N - 1), falling back to
// straight-line P/N when the rate is zero. Invalid terms yield Result{}.
func Calculate(terms LoanTerms) Result {
	if !terms.Valid() {
		return Result{}
	}

	n := float64(terms.TermMonths)
	r := MonthlyRate(terms.AnnualRatePercent)

	var payment float64
	factor := annuityFactor(r, terms.TermMonths)
	if r == 0 || factor == 0 {
		payment = terms.Principal / n
	} else {
		payment = terms.Principal * r / factor
	}

	total := payment * n
	result := Result{
		PeriodicPayment: payment,
		TotalPayment:    total,
		TotalInterest:   total - terms.Principal,
	}
	if !mathutil.AllFinite(result.PeriodicPayment, result.TotalPayment, result.TotalInterest) {
		return Result{}
	}
	return result
}

// MaxPrincipal inverts Calculate: it returns the largest principal whose
// monthly payment at the given rate and term equals payment. A zero rate
// gives payment*N. Non-positive or non-finite payment, a negative rate or a
// non-positive term yield 0.
func MaxPrincipal(payment, annualRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 || !mathutil.AllFinite(payment, annualRatePercent) ||
		payment <= 0 || annualRatePercent < 0 {
		return 0
	}

	r := MonthlyRate(annualRatePercent)
	factor := annuityFactor(r, termMonths)
	var principal float64
	if r == 0 || factor == 0 {
		principal = payment * float64(termMonths)
	} else {
		principal = payment * factor / r
	}
	return mathutil.ClampNonNegative(principal)
}
