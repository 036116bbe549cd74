package amortization

import (
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// Tax estimate assumptions. These are fixed product simplifications, not
// configuration.
const (
	AssumedTenureYears    = 20
	AssumedTaxBracket     = 0.30
	InterestDeductionCap  = 200000.0
	PrincipalDeductionCap = 150000.0
)

// TaxSavingsInput describes the home loan for the tax estimate.
type TaxSavingsInput struct {
	LoanAmount        float64 `json:"loanAmount" yaml:"loanAmount"`
	AnnualRatePercent float64 `json:"annualRatePercent" yaml:"annualRatePercent"`
}

// TaxSavingsResult breaks the estimate into its interest and principal parts.
type TaxSavingsResult struct {
	AnnualInterest      float64 `json:"annualInterest"`
	DeductibleInterest  float64 `json:"deductibleInterest"`
	InterestSaving      float64 `json:"interestSaving"`
	AnnualPrincipal     float64 `json:"annualPrincipal"`
	DeductiblePrincipal float64 `json:"deductiblePrincipal"`
	PrincipalSaving     float64 `json:"principalSaving"`
	TotalSaving         float64 `json:"totalSaving"`
}

// Rounded returns a copy rounded to whole currency units.
func (t TaxSavingsResult) Rounded() TaxSavingsResult {
	return TaxSavingsResult{
		AnnualInterest:      mathutil.RoundUnits(t.AnnualInterest),
		DeductibleInterest:  mathutil.RoundUnits(t.DeductibleInterest),
		InterestSaving:      mathutil.RoundUnits(t.InterestSaving),
		AnnualPrincipal:     mathutil.RoundUnits(t.AnnualPrincipal),
		DeductiblePrincipal: mathutil.RoundUnits(t.DeductiblePrincipal),
		PrincipalSaving:     mathutil.RoundUnits(t.PrincipalSaving),
		TotalSaving:         mathutil.RoundUnits(t.TotalSaving),
	}
}

// EstimateTaxSavings approximates the yearly tax saved on a home loan.
// Interest is the first-year figure amount*rate/100 rather than an
// amortization schedule, and principal repaid is amount/AssumedTenureYears.
// Each is capped at its deduction ceiling and taxed at AssumedTaxBracket.
func EstimateTaxSavings(in TaxSavingsInput) TaxSavingsResult {
	if !mathutil.AllFinite(in.LoanAmount, in.AnnualRatePercent) ||
		in.LoanAmount <= 0 || in.AnnualRatePercent < 0 {
		return TaxSavingsResult{}
	}

	annualInterest := in.LoanAmount * in.AnnualRatePercent / constants.PercentageMultiplier
	deductibleInterest := mathutil.Min(annualInterest, InterestDeductionCap)

	annualPrincipal := in.LoanAmount / AssumedTenureYears
	deductiblePrincipal := mathutil.Min(annualPrincipal, PrincipalDeductionCap)

	res := TaxSavingsResult{
		AnnualInterest:      annualInterest,
		DeductibleInterest:  deductibleInterest,
		InterestSaving:      deductibleInterest * AssumedTaxBracket,
		AnnualPrincipal:     annualPrincipal,
		DeductiblePrincipal: deductiblePrincipal,
		PrincipalSaving:     deductiblePrincipal * AssumedTaxBracket,
	}
	res.TotalSaving = res.InterestSaving + res.PrincipalSaving
	if !mathutil.AllFinite(res.AnnualInterest, res.AnnualPrincipal, res.TotalSaving) {
		return TaxSavingsResult{}
	}
	return res
}
