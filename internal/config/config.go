// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Calculator CalculatorConfig `yaml:"calculator,omitempty"`
	Offers     []Offer          `yaml:"offers,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// CalculatorConfig holds the defaults the calculator surfaces start from.
type CalculatorConfig struct {
	CeilingRatio      float64           `yaml:"ceilingRatio,omitempty"`
	DefaultRate       float64           `yaml:"defaultRate,omitempty"`
	DefaultTermMonths int               `yaml:"defaultTermMonths,omitempty"`
	Limits            validation.Limits `yaml:"limits,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys may be overridden with LOANCALC_-prefixed
// environment variables, e.g. LOANCALC_CALCULATOR_CEILINGRATIO.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

// Default returns the configuration used when no file is supplied. It still
// honours environment overrides.
func Default() (*Configuration, error) {
	return decode(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)

	limits := validation.DefaultLimits()
	v.SetDefault("calculator.ceilingRatio", constants.DefaultCeilingRatio)
	v.SetDefault("calculator.defaultRate", constants.DefaultAnnualRate)
	v.SetDefault("calculator.defaultTermMonths", constants.DefaultTermMonths)
	v.SetDefault("calculator.limits.minPrincipal", limits.MinPrincipal)
	v.SetDefault("calculator.limits.maxPrincipal", limits.MaxPrincipal)
	v.SetDefault("calculator.limits.minRate", limits.MinRate)
	v.SetDefault("calculator.limits.maxRate", limits.MaxRate)
	v.SetDefault("calculator.limits.minTermMonths", limits.MinTermMonths)
	v.SetDefault("calculator.limits.maxTermMonths", limits.MaxTermMonths)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if len(configuration.Offers) == 0 {
		configuration.Offers = DefaultOffers()
	}
	return &configuration, nil
}

// Validate returns an error for configuration the calculator cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateLimits(c.Calculator.Limits); err != nil {
		return fmt.Errorf("invalid calculator limits: %w", err)
	}
	if ratio := c.Calculator.CeilingRatio; !mathutil.IsFinite(ratio) || ratio < 0 || ratio > 1 {
		return fmt.Errorf("ceilingRatio must be between 0 and 1, got %v", c.Calculator.CeilingRatio)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	defaults := c.DefaultTerms(1)
	if !defaults.Valid() {
		warnings = append(warnings, fmt.Sprintf("default rate %v%% and term %d months cannot be calculated",
			c.Calculator.DefaultRate, c.Calculator.DefaultTermMonths))
	}

	seen := make(map[string]struct{})
	for _, offer := range c.Offers {
		warnings = append(warnings, offer.Validate()...)
		key := offer.Lender + "/" + offer.Product
		if _, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("duplicate offer for lender '%s' product '%s'", offer.Lender, offer.Product))
		}
		seen[key] = struct{}{}
	}

	return warnings
}
