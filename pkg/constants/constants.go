// Package constants provides shared constants for the deal-underwriter engine.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// AnnualPeriods is the periods-per-year for annual projection frequency
	AnnualPeriods = 1

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Validation constants
const (
	// EquityShareTolerance is the allowed deviation of LP + GP equity shares from 1.0
	EquityShareTolerance = 0.001

	// ShareSumTolerance is the allowed deviation of intra-tier shares from 1.0
	ShareSumTolerance = 0.001

	// TypicalCapRateFloor and TypicalCapRateCeiling bound the commercially
	// typical cap rate range; values outside produce warnings, not errors.
	TypicalCapRateFloor   = 0.03
	TypicalCapRateCeiling = 0.15

	// TypicalVacancyCeiling is the vacancy rate above which a warning is raised
	TypicalVacancyCeiling = 0.25

	// TypicalInterestCeiling is the interest rate above which a warning is raised
	TypicalInterestCeiling = 0.15
)

// IRR solver tuning. The derivative threshold guards Newton steps against
// division by a near-zero slope; the damping factor clamps each step to a
// multiple of the current guess to prevent overshooting.
const (
	IRRInitialGuess        = 0.10
	IRRConvergenceTol      = 1e-9
	MaxNewtonIterations    = 60
	MaxBisectionIterations = 200
	DerivativeThreshold    = 1e-12
	NewtonDampingFactor    = 0.5

	// MinDiscountRate is just above total loss; rates at or below -100% are
	// outside the solvable domain.
	MinDiscountRate = -0.9999

	// MaxBracketRate bounds the solvable domain at a 100% periodic rate.
	// Roots beyond it come from pathological sign patterns, not deals.
	MaxBracketRate = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default deal configuration file name
	DefaultConfigFile = "deal.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
