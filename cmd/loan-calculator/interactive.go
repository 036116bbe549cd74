package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/spf13/cobra"
)

const (
	choiceEMI      = "emi"
	choiceAfford   = "afford"
	choiceCompare  = "compare"
	choiceTax      = "tax"
	choiceSchedule = "schedule"
	choiceOffers   = "offers"
)

// answers holds the raw form values. Every numeric field is kept as text so
// the form can validate it in place.
type answers struct {
	calculator  string
	principal   string
	rate        string
	altRate     string
	term        string
	income      string
	obligations string
	product     string
}

func newInteractiveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Answer a few questions instead of passing flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			a := &answers{
				rate:    strconv.FormatFloat(rt.conf.Calculator.DefaultRate, 'f', -1, 64),
				term:    strconv.Itoa(rt.conf.Calculator.DefaultTermMonths),
				product: constants.ProductPersonalLoan,
			}
			if err := huh.NewForm(huh.NewGroup(calculatorSelect(a))).Run(); err != nil {
				return interactiveError(err)
			}
			if err := huh.NewForm(huh.NewGroup(inputsFor(a)...)).Run(); err != nil {
				return interactiveError(err)
			}
			return runAnswers(rt, cmd.OutOrStdout(), a)
		},
	}
}

func interactiveError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return fmt.Errorf("interactive prompt failed: %w", err)
}

func calculatorSelect(a *answers) huh.Field {
	return huh.NewSelect[string]().
		Title("Which calculator?").
		Options(
			huh.NewOption("EMI", choiceEMI),
			huh.NewOption("Loan eligibility", choiceAfford),
			huh.NewOption("Compare two rates", choiceCompare),
			huh.NewOption("Home loan tax savings", choiceTax),
			huh.NewOption("Repayment schedule", choiceSchedule),
			huh.NewOption("Lender offers", choiceOffers),
		).
		Value(&a.calculator)
}

func inputsFor(a *answers) []huh.Field {
	principal := numberInput("Loan amount", &a.principal)
	rate := numberInput("Annual interest rate (%)", &a.rate)
	term := numberInput("Term in months", &a.term)

	switch a.calculator {
	case choiceAfford:
		return []huh.Field{
			numberInput("Net monthly income", &a.income),
			numberInput("Existing monthly obligations", &a.obligations),
			rate, term,
		}
	case choiceCompare:
		return []huh.Field{principal, term, rate, numberInput("Alternative rate (%)", &a.altRate)}
	case choiceTax:
		return []huh.Field{principal, rate}
	case choiceOffers:
		return []huh.Field{
			huh.NewSelect[string]().
				Title("Product").
				Options(
					huh.NewOption("Personal loan", constants.ProductPersonalLoan),
					huh.NewOption("Home loan", constants.ProductHomeLoan),
					huh.NewOption("Credit card", constants.ProductCreditCard),
				).
				Value(&a.product),
			principal, term,
		}
	default:
		return []huh.Field{principal, rate, term}
	}
}

func numberInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			_, err := parseNumber(s)
			return err
		})
}

// parseNumber accepts plain or grouped numbers such as "5,00,000".
func parseNumber(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, errors.New("a value is required")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// runAnswers runs the calculator chosen in a and writes the result.
func runAnswers(rt *runtime, w io.Writer, a *answers) error {
	num := func(s string) float64 {
		v, _ := parseNumber(s)
		return v
	}
	terms := amortization.LoanTerms{
		Principal:         num(a.principal),
		AnnualRatePercent: num(a.rate),
		TermMonths:        int(num(a.term)),
	}

	switch a.calculator {
	case choiceEMI:
		return output.EMI(w, rt.outputFormat, rt.calc.EMI(terms))
	case choiceAfford:
		quote := rt.calc.Affordability(amortization.AffordabilityInput{
			MonthlyIncome:       num(a.income),
			ExistingObligations: num(a.obligations),
			AnnualRatePercent:   terms.AnnualRatePercent,
			TermMonths:          terms.TermMonths,
		})
		return output.Affordability(w, rt.outputFormat, quote)
	case choiceCompare:
		quote := rt.calc.Compare(terms.Principal, terms.TermMonths, terms.AnnualRatePercent, num(a.altRate))
		return output.Comparison(w, rt.outputFormat, quote)
	case choiceTax:
		quote := rt.calc.TaxSavings(amortization.TaxSavingsInput{
			LoanAmount:        terms.Principal,
			AnnualRatePercent: terms.AnnualRatePercent,
		})
		return output.Tax(w, rt.outputFormat, quote)
	case choiceSchedule:
		quote, err := rt.calc.Schedule(terms, datetime.CurrentMonth(time.Now()), terms.TermMonths > 60)
		if err != nil {
			return err
		}
		return output.Schedule(w, rt.outputFormat, quote)
	case choiceOffers:
		quotes, err := rt.calc.QuoteOffers(terms.Principal, terms.TermMonths, a.product)
		if err != nil {
			return err
		}
		return output.Offers(w, rt.outputFormat, quotes)
	default:
		return fmt.Errorf("unknown calculator %q", a.calculator)
	}
}
