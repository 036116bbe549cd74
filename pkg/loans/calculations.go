// Package loans builds month-by-month repayment schedules on top of the
// amortization engine.
package loans

import (
	"fmt"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Number             int     `json:"number"`
	Month              string  `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// YearSummary aggregates the payments falling in one calendar year.
type YearSummary struct {
	Year           int     `json:"year"`
	Payments       int     `json:"payments"`
	Principal      float64 `json:"principal"`
	Interest       float64 `json:"interest"`
	ClosingBalance float64 `json:"closingBalance"`
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * amortization.MonthlyRate(annualInterestRate)
}

// ScheduleGenerator provides utilities for generating loan repayment schedules
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// ErrTermTooLong is returned for terms longer than constants.MaxScheduleMonths.
var ErrTermTooLong = fmt.Errorf("term exceeds the %d month schedule limit", constants.MaxScheduleMonths)

// GenerateSchedule creates the full repayment schedule for terms with the
// first payment falling in startMonth (YYYY-MM). Invalid terms produce an
// empty schedule; a malformed startMonth or a term over MaxScheduleMonths is
// an error.
func (g *ScheduleGenerator) GenerateSchedule(terms amortization.LoanTerms, startMonth string) ([]Payment, error) {
	if err := datetime.ValidateMonth(startMonth); err != nil {
		return nil, err
	}
	if terms.TermMonths > constants.MaxScheduleMonths {
		return nil, fmt.Errorf("%d months: %w", terms.TermMonths, ErrTermTooLong)
	}

	result := amortization.Calculate(terms)
	if result.IsZero() {
		g.logger.Debug("skipping schedule for invalid loan terms",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("principal", terms.Principal),
			zap.Float64("rate", terms.AnnualRatePercent),
			zap.Int("term", terms.TermMonths),
		)
		return []Payment{}, nil
	}

	schedule := make([]Payment, 0, terms.TermMonths)
	balance := terms.Principal
	currentMonth := startMonth

	for number := 1; number <= terms.TermMonths; number++ {
		var current Payment
		current.Number = number
		current.Month = currentMonth
		current.Interest = CalculateInterestPayment(balance, terms.AnnualRatePercent)
		current.Payment = result.PeriodicPayment
		current.Principal = result.PeriodicPayment - current.Interest

		if number == terms.TermMonths || mathutil.Round(balance-current.Principal) <= 0 {
			// Clear the residual left by floating point error on the last row.
			current.Principal = balance
			current.Payment = balance + current.Interest
			current.RemainingPrincipal = 0
			schedule = append(schedule, current)
			if number != terms.TermMonths {
				g.logger.Debug(fmt.Sprintf("%s: loan cleared early at payment %d of %d",
					currentMonth, number, terms.TermMonths),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}

		current.RemainingPrincipal = balance - current.Principal
		schedule = append(schedule, current)
		balance = current.RemainingPrincipal

		next, err := datetime.OffsetDate(currentMonth, datetime.DateTimeLayout, 1)
		if err != nil {
			return nil, err
		}
		currentMonth = next
	}

	g.logger.Debug("generated repayment schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("start", startMonth),
		zap.Int("payments", len(schedule)),
	)
	return schedule, nil
}

// SummarizeByYear groups schedule rows by calendar year, preserving order.
func SummarizeByYear(schedule []Payment) ([]YearSummary, error) {
	var summaries []YearSummary
	for _, p := range schedule {
		year, err := datetime.Year(p.Month)
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 || summaries[len(summaries)-1].Year != year {
			summaries = append(summaries, YearSummary{Year: year})
		}
		s := &summaries[len(summaries)-1]
		s.Payments++
		s.Principal += p.Principal
		s.Interest += p.Interest
		s.ClosingBalance = p.RemainingPrincipal
	}
	return summaries, nil
}

// Totals sums payments and interest across a schedule.
func Totals(schedule []Payment) (payment, interest float64) {
	for _, p := range schedule {
		payment += p.Payment
		interest += p.Interest
	}
	return payment, interest
}
