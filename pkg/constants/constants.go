// Package constants provides shared constants for the loan-calculator application.
package constants

// DateTimeLayout is the month format used for schedule rows and start months.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// ToleranceForComparison is the tolerance for whole-unit display comparisons
	ToleranceForComparison = 1.0
)

// Calculator defaults, used when the configuration leaves a value unset.
const (
	// DefaultCeilingRatio is the fixed obligation to income ratio (FOIR) lenders
	// assume can go toward debt payments.
	DefaultCeilingRatio = 0.55

	// DefaultAnnualRate is the rate preselected on the EMI sliders.
	DefaultAnnualRate = 10.5

	// DefaultTermMonths is the tenure preselected on the EMI sliders.
	DefaultTermMonths = 36

	// Slider bounds. Values outside them are computed but produce warnings.
	DefaultMinPrincipal  = 10000.0
	DefaultMaxPrincipal  = 10000000.0
	DefaultMinRate       = 5.0
	DefaultMaxRate       = 30.0
	DefaultMinTermMonths = 6
	DefaultMaxTermMonths = 360

	// MaxScheduleMonths is the longest term a repayment schedule is built
	// for. Unlike the slider bounds it is a hard limit.
	MaxScheduleMonths = 1200
)

// Product identifiers for the offer catalogue.
const (
	ProductPersonalLoan = "personal-loan"
	ProductHomeLoan     = "home-loan"
	ProductCreditCard   = "credit-card"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. LOANCALC_CALCULATOR_CEILINGRATIO.
	EnvPrefix = "LOANCALC"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (64 KB)
	DefaultMaxUploadSizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of requests a client may make per window
	DefaultRateLimitRequests = 120

	// DefaultRateLimitWindowSeconds is the refill window for the rate limiter
	DefaultRateLimitWindowSeconds = 60
)
