// Package constants provides shared constants for the loan-payoff application.
package constants

// DateTimeLayout is the format expected in config files for loan start dates
// and is also the output date format.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimals kept for currency values
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent).
	// A balance at or below it is treated as paid off.
	CurrencyTolerance = 0.01
)

// Schedule safety limits
const (
	// DefaultMaxPeriods is the absolute ceiling on simulated periods (50 years)
	DefaultMaxPeriods = 600

	// DefaultTermMultiplier caps a schedule at this multiple of its declared term
	DefaultTermMultiplier = 2

	// MaxBisectionIterations bounds the target payoff search
	MaxBisectionIterations = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Schedule selectors used by output and the HTTP API
const (
	// ScheduleBase selects the schedule without extra payments
	ScheduleBase = "base"

	// SchedulePrepayment selects the schedule with extra payments
	SchedulePrepayment = "prepayment"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of requests a client may make per window
	DefaultRateLimitRequests = 60

	// DefaultCacheSize is the default number of results kept by the in-memory cache
	DefaultCacheSize = 256

	// DefaultCacheKeyPrefix namespaces cached results in Redis
	DefaultCacheKeyPrefix = "loan-payoff:"
)

// Validation constants
const (
	// HighInterestRateWarning is the annual rate (percent) above which a warning is raised
	HighInterestRateWarning = 50.0

	// MaxTermMonthsWarning is the term above which a warning is raised (50 years)
	MaxTermMonthsWarning = 600
)
