package amortization

import (
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// DefaultCeilingRatio is the obligation-to-income ceiling used when the
// caller supplies none.
const DefaultCeilingRatio = constants.DefaultCeilingRatio

// AffordabilityInput describes an applicant for the eligibility calculation.
type AffordabilityInput struct {
	MonthlyIncome       float64 `json:"monthlyIncome" yaml:"monthlyIncome"`
	ExistingObligations float64 `json:"existingObligations" yaml:"existingObligations"`
	AnnualRatePercent   float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
	TermMonths          int     `json:"termMonths" yaml:"termMonths"`
	CeilingRatio        float64 `json:"ceilingRatio,omitempty" yaml:"ceilingRatio,omitempty"`
}

// AffordabilityResult is the largest loan an applicant can service.
type AffordabilityResult struct {
	MaxPrincipal         float64 `json:"maxPrincipal"`
	MaxAffordablePayment float64 `json:"maxAffordablePayment"`
}

// Rounded returns a copy rounded to whole currency units.
func (a AffordabilityResult) Rounded() AffordabilityResult {
	return AffordabilityResult{
		MaxPrincipal:         mathutil.RoundUnits(a.MaxPrincipal),
		MaxAffordablePayment: mathutil.RoundUnits(a.MaxAffordablePayment),
	}
}

// NormalizeCeilingRatio maps a caller-supplied ratio into (0, 1]. Zero,
// negative and non-finite ratios become DefaultCeilingRatio; ratios above 1
// are clamped to 1.
func NormalizeCeilingRatio(ratio float64) float64 {
	if !mathutil.IsFinite(ratio) || ratio <= 0 {
		return DefaultCeilingRatio
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Affordability computes the maximum serviceable principal:
//
//	available = max(income - obligations, 0)
//	payment   = available * ceilingRatio
//	principal = MaxPrincipal(payment, rate, term)
//
// Non-positive term, negative or non-finite rate, or non-finite income yield
// a zero result.
func Affordability(in AffordabilityInput) AffordabilityResult {
	if in.TermMonths <= 0 ||
		!mathutil.AllFinite(in.MonthlyIncome, in.ExistingObligations, in.AnnualRatePercent) ||
		in.AnnualRatePercent < 0 {
		return AffordabilityResult{}
	}

	available := mathutil.ClampNonNegative(in.MonthlyIncome - in.ExistingObligations)
	payment := available * NormalizeCeilingRatio(in.CeilingRatio)
	if payment <= 0 {
		return AffordabilityResult{}
	}

	return AffordabilityResult{
		MaxPrincipal:         MaxPrincipal(payment, in.AnnualRatePercent, in.TermMonths),
		MaxAffordablePayment: payment,
	}
}
