// Package calculator joins the amortization engine to the configured limits,
// defaults and lender catalogue. It is what the CLI and HTTP surfaces call.
package calculator

import (
	"fmt"
	"sort"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
)

// Calculator evaluates requests against a loaded configuration.
type Calculator struct {
	logger *zap.Logger
	cfg    *config.Configuration
}

// EMIQuote is the answer to a single forward calculation.
type EMIQuote struct {
	Terms    amortization.LoanTerms `json:"terms"`
	Result   amortization.Result    `json:"result"`
	Rounded  amortization.Result    `json:"rounded"`
	Warnings []string               `json:"warnings,omitempty"`
}

// AffordabilityQuote is the answer to an eligibility request.
type AffordabilityQuote struct {
	Input    amortization.AffordabilityInput  `json:"input"`
	Result   amortization.AffordabilityResult `json:"result"`
	Rounded  amortization.AffordabilityResult `json:"rounded"`
	Warnings []string                         `json:"warnings,omitempty"`
}

// ComparisonQuote is the answer to a two-rate comparison.
type ComparisonQuote struct {
	Comparison amortization.Comparison `json:"comparison"`
	Rounded    amortization.Comparison `json:"rounded"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// TaxQuote is the answer to a tax savings estimate.
type TaxQuote struct {
	Input    amortization.TaxSavingsInput  `json:"input"`
	Result   amortization.TaxSavingsResult `json:"result"`
	Rounded  amortization.TaxSavingsResult `json:"rounded"`
	Warnings []string                      `json:"warnings,omitempty"`
}

// ScheduleQuote carries a full repayment schedule.
type ScheduleQuote struct {
	Terms    amortization.LoanTerms `json:"terms"`
	Result   amortization.Result    `json:"result"`
	Payments []loans.Payment        `json:"payments"`
	Years    []loans.YearSummary    `json:"years,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// OfferQuote prices one catalogue offer for the requested loan.
type OfferQuote struct {
	Offer         config.Offer           `json:"offer"`
	Terms         amortization.LoanTerms `json:"terms"`
	Result        amortization.Result    `json:"result"`
	ProcessingFee float64                `json:"processingFee"`
	TotalCost     float64                `json:"totalCost"`
	Eligible      bool                   `json:"eligible"`
	Reason        string                 `json:"reason,omitempty"`
}

// New returns a Calculator. A nil cfg uses the built-in defaults.
func New(logger *zap.Logger, cfg *config.Configuration) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		var err error
		cfg, err = config.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load default configuration: %w", err)
		}
	}
	return &Calculator{logger: logger, cfg: cfg}, nil
}

// Config returns the configuration the calculator was built with.
func (c *Calculator) Config() *config.Configuration {
	return c.cfg
}

// EMI runs the forward calculation for terms.
func (c *Calculator) EMI(terms amortization.LoanTerms) EMIQuote {
	result := amortization.Calculate(terms)
	quote := EMIQuote{
		Terms:    terms,
		Result:   result,
		Rounded:  result.Rounded(),
		Warnings: validation.ValidateLoanTerms(terms, c.cfg.Calculator.Limits),
	}

	c.logger.Debug("calculated EMI",
		zap.String("op", "calculator.EMI"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("rate", terms.AnnualRatePercent),
		zap.Int("term", terms.TermMonths),
		zap.Float64("emi", result.PeriodicPayment),
		zap.Int("warnings", len(quote.Warnings)),
	)
	return quote
}

// Affordability computes loan eligibility. A zero ceiling ratio is replaced
// with the configured one before the engine normalizes it.
func (c *Calculator) Affordability(in amortization.AffordabilityInput) AffordabilityQuote {
	if in.CeilingRatio == 0 {
		in.CeilingRatio = c.cfg.Calculator.CeilingRatio
	}
	in.CeilingRatio = amortization.NormalizeCeilingRatio(in.CeilingRatio)

	result := amortization.Affordability(in)
	warnings := validation.ValidateIncome(in.MonthlyIncome, in.ExistingObligations)
	if result.MaxPrincipal > 0 {
		warnings = append(warnings, validation.ValidateLoanTerms(amortization.LoanTerms{
			Principal:         result.MaxPrincipal,
			AnnualRatePercent: in.AnnualRatePercent,
			TermMonths:        in.TermMonths,
		}, c.cfg.Calculator.Limits)...)
	}

	c.logger.Debug("calculated affordability",
		zap.String("op", "calculator.Affordability"),
		zap.Float64("income", in.MonthlyIncome),
		zap.Float64("obligations", in.ExistingObligations),
		zap.Float64("ceilingRatio", in.CeilingRatio),
		zap.Float64("maxPrincipal", result.MaxPrincipal),
	)
	return AffordabilityQuote{Input: in, Result: result, Rounded: result.Rounded(), Warnings: warnings}
}

// Compare evaluates the same loan at two rates.
func (c *Calculator) Compare(principal float64, termMonths int, baseRate, alternativeRate float64) ComparisonQuote {
	base := amortization.LoanTerms{Principal: principal, AnnualRatePercent: baseRate, TermMonths: termMonths}
	alternative := amortization.LoanTerms{Principal: principal, AnnualRatePercent: alternativeRate, TermMonths: termMonths}
	comparison := amortization.Compare(base, alternative)

	var warnings []string
	for _, w := range validation.ValidateLoanTerms(base, c.cfg.Calculator.Limits) {
		warnings = append(warnings, "base: "+w)
	}
	for _, w := range validation.ValidateLoanTerms(alternative, c.cfg.Calculator.Limits) {
		warnings = append(warnings, "alternative: "+w)
	}

	c.logger.Debug("compared rates",
		zap.String("op", "calculator.Compare"),
		zap.Float64("baseRate", baseRate),
		zap.Float64("alternativeRate", alternativeRate),
		zap.Float64("paymentDelta", comparison.PaymentDelta),
		zap.Float64("interestDelta", comparison.InterestDelta),
	)
	return ComparisonQuote{Comparison: comparison, Rounded: comparison.Rounded(), Warnings: warnings}
}

// TaxSavings estimates the yearly home loan tax saving.
func (c *Calculator) TaxSavings(in amortization.TaxSavingsInput) TaxQuote {
	result := amortization.EstimateTaxSavings(in)

	var warnings []string
	if result == (amortization.TaxSavingsResult{}) {
		warnings = append(warnings, fmt.Sprintf(
			"loan amount %v at %v%% cannot be estimated; result is zero", in.LoanAmount, in.AnnualRatePercent))
	}

	c.logger.Debug("estimated tax savings",
		zap.String("op", "calculator.TaxSavings"),
		zap.Float64("loanAmount", in.LoanAmount),
		zap.Float64("rate", in.AnnualRatePercent),
		zap.Float64("totalSaving", result.TotalSaving),
	)
	return TaxQuote{Input: in, Result: result, Rounded: result.Rounded(), Warnings: warnings}
}

// Schedule builds the repayment schedule for terms starting in startMonth
// (YYYY-MM). When yearly is set the per-year summary is included.
func (c *Calculator) Schedule(terms amortization.LoanTerms, startMonth string, yearly bool) (ScheduleQuote, error) {
	generator := loans.NewScheduleGenerator(c.logger)
	payments, err := generator.GenerateSchedule(terms, startMonth)
	if err != nil {
		return ScheduleQuote{}, fmt.Errorf("failed to generate schedule: %w", err)
	}

	quote := ScheduleQuote{
		Terms:    terms,
		Result:   amortization.Calculate(terms),
		Payments: payments,
		Warnings: validation.ValidateLoanTerms(terms, c.cfg.Calculator.Limits),
	}
	if yearly {
		quote.Years, err = loans.SummarizeByYear(payments)
		if err != nil {
			return ScheduleQuote{}, fmt.Errorf("failed to summarize schedule: %w", err)
		}
	}

	c.logger.Debug("built schedule",
		zap.String("op", "calculator.Schedule"),
		zap.String("start", startMonth),
		zap.Int("payments", len(payments)),
		zap.Bool("yearly", yearly),
	)
	return quote, nil
}

// QuoteOffers prices every configured offer for product. Offers are ranked by
// total cost (repayments plus processing fee), eligible offers first.
func (c *Calculator) QuoteOffers(principal float64, termMonths int, product string) ([]OfferQuote, error) {
	if err := validation.ValidateProduct(product); err != nil {
		return nil, err
	}

	offers := c.cfg.OffersFor(product)
	quotes := make([]OfferQuote, 0, len(offers))
	for _, offer := range offers {
		terms := offer.Terms(principal, termMonths)
		result := amortization.Calculate(terms)
		quote := OfferQuote{
			Offer:    offer,
			Terms:    terms,
			Result:   result,
			Eligible: true,
		}

		switch {
		case offer.Rate < 0:
			quote.Eligible = false
			quote.Reason = "offer has a negative rate"
		case offer.MaxPrincipal > 0 && principal > offer.MaxPrincipal:
			quote.Eligible = false
			quote.Reason = fmt.Sprintf("principal exceeds lender maximum of %.0f", offer.MaxPrincipal)
		case result.IsZero():
			quote.Eligible = false
			quote.Reason = "loan terms cannot be calculated"
		}

		if quote.Eligible {
			quote.ProcessingFee = mathutil.ApplyPercentage(principal, mathutil.ClampNonNegative(offer.ProcessingFeePercent))
			quote.TotalCost = result.TotalPayment + quote.ProcessingFee
		}
		quotes = append(quotes, quote)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].Eligible != quotes[j].Eligible {
			return quotes[i].Eligible
		}
		return quotes[i].TotalCost < quotes[j].TotalCost
	})

	c.logger.Debug("quoted offers",
		zap.String("op", "calculator.QuoteOffers"),
		zap.String("product", product),
		zap.Float64("principal", principal),
		zap.Int("term", termMonths),
		zap.Int("offers", len(quotes)),
	)
	return quotes, nil
}
