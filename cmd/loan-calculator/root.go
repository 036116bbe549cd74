package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// runtime is everything a subcommand needs once flags are parsed.
type runtime struct {
	conf         *config.Configuration
	logger       *zap.Logger
	calc         *calculator.Calculator
	outputFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "loan-calculator",
		Short:        "Loan and credit card calculators",
		Long:         "EMI, eligibility, rate comparison, tax savings, repayment schedules and lender offers.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json")

	rootCmd.AddCommand(
		newEMICmd(opts),
		newAffordCmd(opts),
		newCompareCmd(opts),
		newTaxCmd(opts),
		newScheduleCmd(opts),
		newOffersCmd(opts),
		newServeCmd(opts),
		newInteractiveCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// loadRuntime loads configuration and builds the logger and calculator. A
// missing default config file falls back to built-in defaults; a missing
// file named with --config is an error.
func loadRuntime(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	conf, err := loadConfiguration(opts.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return nil, err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	calc, err := calculator.New(logger, conf)
	if err != nil {
		return nil, err
	}

	return &runtime{conf: conf, logger: logger, calc: calc, outputFormat: outputFormat}, nil
}

func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config.Default()
		}
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

func (rt *runtime) sync() {
	_ = rt.logger.Sync()
}

// rateOrDefault returns the --rate flag when set and the configured default
// otherwise. termOrDefault does the same for --term.
func (rt *runtime) rateOrDefault(cmd *cobra.Command, rate float64) float64 {
	if cmd.Flags().Changed("rate") {
		return rate
	}
	return rt.conf.Calculator.DefaultRate
}

func (rt *runtime) termOrDefault(cmd *cobra.Command, term int) int {
	if cmd.Flags().Changed("term") {
		return term
	}
	return rt.conf.Calculator.DefaultTermMonths
}
