package config

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/validation"
)

// Offer is one lender's product in the comparison catalogue.
type Offer struct {
	Lender               string  `yaml:"lender" json:"lender"`
	Product              string  `yaml:"product" json:"product"`
	Rate                 float64 `yaml:"rate" json:"rate"` // annual percent
	ProcessingFeePercent float64 `yaml:"processingFeePercent,omitempty" json:"processingFeePercent,omitempty"`
	MaxTermMonths        int     `yaml:"maxTermMonths,omitempty" json:"maxTermMonths,omitempty"`
	MaxPrincipal         float64 `yaml:"maxPrincipal,omitempty" json:"maxPrincipal,omitempty"`
}

// Validate returns warnings for offer values that will be skipped or clamped.
func (o Offer) Validate() []string {
	var warnings []string
	name := o.Lender
	if name == "" {
		name = "<unnamed>"
		warnings = append(warnings, "offer is missing a lender name")
	}
	if err := validation.ValidateProduct(o.Product); err != nil {
		warnings = append(warnings, fmt.Sprintf("offer '%s': %v", name, err))
	}
	if o.Rate < 0 {
		warnings = append(warnings, fmt.Sprintf("offer '%s' has negative rate %v and will never be quoted", name, o.Rate))
	}
	if o.ProcessingFeePercent < 0 {
		warnings = append(warnings, fmt.Sprintf("offer '%s' has negative processing fee %v%%", name, o.ProcessingFeePercent))
	}
	return warnings
}

// Terms returns the terms this offer would quote for the requested principal
// and term, capping the term at MaxTermMonths when one is set.
func (o Offer) Terms(principal float64, termMonths int) amortization.LoanTerms {
	if o.MaxTermMonths > 0 && termMonths > o.MaxTermMonths {
		termMonths = o.MaxTermMonths
	}
	return amortization.LoanTerms{Principal: principal, AnnualRatePercent: o.Rate, TermMonths: termMonths}
}

// DefaultTerms builds LoanTerms for principal from the configured default
// rate and term.
func (c *Configuration) DefaultTerms(principal float64) amortization.LoanTerms {
	return amortization.LoanTerms{
		Principal:         principal,
		AnnualRatePercent: c.Calculator.DefaultRate,
		TermMonths:        c.Calculator.DefaultTermMonths,
	}
}

// OffersFor returns the configured offers for product, in catalogue order.
func (c *Configuration) OffersFor(product string) []Offer {
	var offers []Offer
	for _, o := range c.Offers {
		if o.Product == product {
			offers = append(offers, o)
		}
	}
	return offers
}

// DefaultOffers is the built-in catalogue used when the configuration lists
// no offers.
func DefaultOffers() []Offer {
	return []Offer{
		{Lender: "Sahyadri Bank", Product: constants.ProductPersonalLoan, Rate: 10.5, ProcessingFeePercent: 1.0, MaxTermMonths: 60, MaxPrincipal: 4000000},
		{Lender: "Northstar Finance", Product: constants.ProductPersonalLoan, Rate: 11.25, ProcessingFeePercent: 0.5, MaxTermMonths: 72, MaxPrincipal: 2500000},
		{Lender: "Kaveri Credit", Product: constants.ProductPersonalLoan, Rate: 12.5, MaxTermMonths: 48, MaxPrincipal: 1500000},
		{Lender: "Sahyadri Bank", Product: constants.ProductHomeLoan, Rate: 8.5, ProcessingFeePercent: 0.5, MaxTermMonths: 360},
		{Lender: "Kaveri Housing Finance", Product: constants.ProductHomeLoan, Rate: 8.75, ProcessingFeePercent: 0.25, MaxTermMonths: 300},
		{Lender: "Northstar Finance", Product: constants.ProductCreditCard, Rate: 15.99, ProcessingFeePercent: 1.5, MaxTermMonths: 24, MaxPrincipal: 500000},
		{Lender: "Sahyadri Bank", Product: constants.ProductCreditCard, Rate: 14.0, ProcessingFeePercent: 2.0, MaxTermMonths: 18, MaxPrincipal: 300000},
	}
}
