// Package constants provides shared constants for the tokenomics-planner application.
package constants

// Schedule constants
const (
	// DefaultHorizonMonths is the last month index of the unlock schedule; the
	// schedule holds one point per month from 0 through this value inclusive.
	DefaultHorizonMonths = 48

	// MaxHorizonMonths bounds a configured horizon.
	MaxHorizonMonths = 600

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PercentageDecimalPlaces is the precision allocation percentages are rounded to.
	PercentageDecimalPlaces = 1

	// FullAllocation is the percentage every rebalanced distribution sums to.
	FullAllocation = 100.0
)

// Global parameter defaults
const (
	// DefaultTotalSupply is the token supply used when none is configured.
	DefaultTotalSupply = 1_000_000_000.0

	// DefaultInitialTokenPrice is the launch price used when none is configured.
	DefaultInitialTokenPrice = 0.001

	// MinTotalSupply is the floor total supply is clamped to.
	MinTotalSupply = 1.0

	// MaxTotalSupply is the ceiling total supply is clamped to. Token counts
	// stay exact integers and fit an int64 below it.
	MaxTotalSupply = 1e18

	// MaxInitialTokenPrice is the ceiling the launch price is clamped to, so
	// market values stay finite.
	MaxInitialTokenPrice = 1e12
)

// Warning thresholds
const (
	// HighTGEUnlockPercent flags launches releasing more than this share of supply.
	HighTGEUnlockPercent = 25.0

	// HighFDVToMarketCapRatio flags launches whose FDV dwarfs the initial market cap.
	HighFDVToMarketCapRatio = 100.0

	// HighTeamAllocationPercent flags team allocations above this percentage.
	HighTeamAllocationPercent = 20.0

	// LowLiquidityAllocationPercent flags liquidity allocations below this percentage.
	LowLiquidityAllocationPercent = 5.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Logging constants
const (
	// DefaultLogLevel is used when neither the config file nor the CLI sets a level
	DefaultLogLevel = "info"

	// LogFormatJSON selects the production JSON encoder
	LogFormatJSON = "json"

	// LogFormatConsole selects the development console encoder
	LogFormatConsole = "console"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "planner.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys.
	EnvPrefix = "TOKENOMICS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KiB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultVersion is reported when no build version is injected
	DefaultVersion = "dev"

	// DefaultShutdownTimeout is how long the server waits for in-flight requests, as a duration string.
	DefaultShutdownTimeout = "10s"
)

// Validation constants
const (
	// PercentageTolerance is the tolerance used when comparing percentage sums.
	PercentageTolerance = 1e-9
)
