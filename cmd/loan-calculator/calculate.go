package main

import (
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/amortization"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type loanFlags struct {
	principal float64
	rate      float64
	term      int
}

func (f *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.principal, "principal", "p", 0, "loan amount")
	cmd.Flags().Float64VarP(&f.rate, "rate", "r", 0, "annual interest rate in percent (default from config)")
	cmd.Flags().IntVarP(&f.term, "term", "t", 0, "term in months (default from config)")
	_ = cmd.MarkFlagRequired("principal")
}

func (f *loanFlags) terms(cmd *cobra.Command, rt *runtime) amortization.LoanTerms {
	return amortization.LoanTerms{
		Principal:         f.principal,
		AnnualRatePercent: rt.rateOrDefault(cmd, f.rate),
		TermMonths:        rt.termOrDefault(cmd, f.term),
	}
}

func newEMICmd(opts *rootOptions) *cobra.Command {
	flags := &loanFlags{}
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Monthly payment, total payment and total interest for a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			quote := rt.calc.EMI(flags.terms(cmd, rt))
			return output.EMI(cmd.OutOrStdout(), rt.outputFormat, quote)
		},
	}
	flags.register(cmd)
	return cmd
}

func newAffordCmd(opts *rootOptions) *cobra.Command {
	var in amortization.AffordabilityInput
	cmd := &cobra.Command{
		Use:   "afford",
		Short: "Largest loan an income can service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			in.AnnualRatePercent = rt.rateOrDefault(cmd, in.AnnualRatePercent)
			in.TermMonths = rt.termOrDefault(cmd, in.TermMonths)
			quote := rt.calc.Affordability(in)
			return output.Affordability(cmd.OutOrStdout(), rt.outputFormat, quote)
		},
	}
	cmd.Flags().Float64VarP(&in.MonthlyIncome, "income", "i", 0, "net monthly income")
	cmd.Flags().Float64VarP(&in.ExistingObligations, "obligations", "o", 0, "existing monthly EMIs and obligations")
	cmd.Flags().Float64VarP(&in.AnnualRatePercent, "rate", "r", 0, "annual interest rate in percent (default from config)")
	cmd.Flags().IntVarP(&in.TermMonths, "term", "t", 0, "term in months (default from config)")
	cmd.Flags().Float64Var(&in.CeilingRatio, "ceiling", 0, "share of free income available for the EMI (default from config)")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var (
		principal       float64
		term            int
		baseRate        float64
		alternativeRate float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the same loan at two interest rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			quote := rt.calc.Compare(principal, rt.termOrDefault(cmd, term), baseRate, alternativeRate)
			return output.Comparison(cmd.OutOrStdout(), rt.outputFormat, quote)
		},
	}
	cmd.Flags().Float64VarP(&principal, "principal", "p", 0, "loan amount")
	cmd.Flags().IntVarP(&term, "term", "t", 0, "term in months (default from config)")
	cmd.Flags().Float64Var(&baseRate, "base-rate", 0, "current annual rate in percent")
	cmd.Flags().Float64Var(&alternativeRate, "alt-rate", 0, "alternative annual rate in percent")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("base-rate")
	_ = cmd.MarkFlagRequired("alt-rate")
	return cmd
}

func newTaxCmd(opts *rootOptions) *cobra.Command {
	var in amortization.TaxSavingsInput
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate yearly tax saved on a home loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			in.AnnualRatePercent = rt.rateOrDefault(cmd, in.AnnualRatePercent)
			quote := rt.calc.TaxSavings(in)
			return output.Tax(cmd.OutOrStdout(), rt.outputFormat, quote)
		},
	}
	cmd.Flags().Float64VarP(&in.LoanAmount, "amount", "a", 0, "home loan amount")
	cmd.Flags().Float64VarP(&in.AnnualRatePercent, "rate", "r", 0, "annual interest rate in percent (default from config)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	flags := &loanFlags{}
	var (
		start   string
		pdfPath string
		yearly  bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Month-by-month repayment schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			if start == "" {
				start = datetime.CurrentMonth(time.Now())
			}
			quote, err := rt.calc.Schedule(flags.terms(cmd, rt), start, yearly)
			if err != nil {
				return err
			}

			if pdfPath != "" {
				data, err := report.SchedulePDF("Loan Repayment Schedule", quote.Terms, quote.Result, quote.Payments, yearly)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", pdfPath, err)
				}
				rt.logger.Info("wrote schedule PDF",
					zap.String("op", "main.schedule"),
					zap.String("path", pdfPath),
					zap.Int("bytes", len(data)),
				)
				return nil
			}
			return output.Schedule(cmd.OutOrStdout(), rt.outputFormat, quote)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "first payment month as YYYY-MM (default current month)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the schedule to this PDF file instead of stdout")
	cmd.Flags().BoolVar(&yearly, "yearly", false, "summarize by calendar year")
	return cmd
}

func newOffersCmd(opts *rootOptions) *cobra.Command {
	var (
		principal float64
		term      int
		product   string
	)
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Rank configured lender offers by total cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.sync()

			quotes, err := rt.calc.QuoteOffers(principal, rt.termOrDefault(cmd, term), product)
			if err != nil {
				return err
			}
			return output.Offers(cmd.OutOrStdout(), rt.outputFormat, quotes)
		},
	}
	cmd.Flags().Float64VarP(&principal, "principal", "p", 0, "loan amount")
	cmd.Flags().IntVarP(&term, "term", "t", 0, "requested term in months, capped per lender (default from config)")
	_ = cmd.MarkFlagRequired("principal")
	cmd.Flags().StringVar(&product, "product", constants.ProductPersonalLoan, "product type: personal-loan, home-loan, credit-card")
	return cmd
}
