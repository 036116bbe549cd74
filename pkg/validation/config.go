// Package validation provides configuration validation utilities.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// Limits are the slider bounds a calculator screen offers. Values outside
// them are still calculated but reported as warnings.
type Limits struct {
	MinPrincipal  float64 `mapstructure:"minPrincipal" yaml:"minPrincipal" json:"minPrincipal"`
	MaxPrincipal  float64 `mapstructure:"maxPrincipal" yaml:"maxPrincipal" json:"maxPrincipal"`
	MinRate       float64 `mapstructure:"minRate" yaml:"minRate" json:"minRate"`
	MaxRate       float64 `mapstructure:"maxRate" yaml:"maxRate" json:"maxRate"`
	MinTermMonths int     `mapstructure:"minTermMonths" yaml:"minTermMonths" json:"minTermMonths"`
	MaxTermMonths int     `mapstructure:"maxTermMonths" yaml:"maxTermMonths" json:"maxTermMonths"`
}

// DefaultLimits returns the standard slider bounds.
func DefaultLimits() Limits {
	return Limits{
		MinPrincipal:  constants.DefaultMinPrincipal,
		MaxPrincipal:  constants.DefaultMaxPrincipal,
		MinRate:       constants.DefaultMinRate,
		MaxRate:       constants.DefaultMaxRate,
		MinTermMonths: constants.DefaultMinTermMonths,
		MaxTermMonths: constants.DefaultMaxTermMonths,
	}
}

// ValidateLimits rejects negative or inverted bounds.
func ValidateLimits(l Limits) error {
	var errs []error
	if l.MinPrincipal < 0 || l.MinRate < 0 || l.MinTermMonths < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if l.MinPrincipal > l.MaxPrincipal {
		errs = append(errs, fmt.Errorf("minPrincipal %.2f exceeds maxPrincipal %.2f", l.MinPrincipal, l.MaxPrincipal))
	}
	if l.MinRate > l.MaxRate {
		errs = append(errs, fmt.Errorf("minRate %.2f exceeds maxRate %.2f", l.MinRate, l.MaxRate))
	}
	if l.MinTermMonths > l.MaxTermMonths {
		errs = append(errs, fmt.Errorf("minTermMonths %d exceeds maxTermMonths %d", l.MinTermMonths, l.MaxTermMonths))
	}
	return errors.Join(errs...)
}

// ValidateLoanTerms returns a warning for every value outside the limits and
// for terms the engine will answer with a zero result.
func ValidateLoanTerms(terms amortization.LoanTerms, l Limits) []string {
	var warnings []string

	if !terms.Valid() {
		warnings = append(warnings, fmt.Sprintf(
			"loan terms (principal %v, rate %v%%, term %d months) are outside the calculable range; result is zero",
			terms.Principal, terms.AnnualRatePercent, terms.TermMonths))
		return warnings
	}

	warnings = append(warnings, checkRange("principal", terms.Principal, l.MinPrincipal, l.MaxPrincipal)...)
	warnings = append(warnings, checkRange("annual rate", terms.AnnualRatePercent, l.MinRate, l.MaxRate)...)
	warnings = append(warnings, checkRange("term in months", float64(terms.TermMonths),
		float64(l.MinTermMonths), float64(l.MaxTermMonths))...)
	return warnings
}

// ValidateIncome warns when obligations leave no room for a new loan.
func ValidateIncome(monthlyIncome, obligations float64) []string {
	var warnings []string
	if math.IsNaN(monthlyIncome) || monthlyIncome <= 0 {
		warnings = append(warnings, "monthly income must be positive; eligibility is zero")
	} else if obligations >= monthlyIncome {
		warnings = append(warnings, fmt.Sprintf(
			"existing obligations %.2f meet or exceed monthly income %.2f; eligibility is zero",
			obligations, monthlyIncome))
	}
	return warnings
}

func checkRange(name string, value, min, max float64) []string {
	var warnings []string
	if max > 0 && value > max {
		warnings = append(warnings, fmt.Sprintf("%s %v is above the supported maximum %v", name, value, max))
	}
	if value < min {
		warnings = append(warnings, fmt.Sprintf("%s %v is below the supported minimum %v", name, value, min))
	}
	return warnings
}
