// Package constants provides shared constants for the sales-forecast application.
package constants

// DateTimeLayout is the canonical day-first layout used for input files and
// is also the output date format.
const DateTimeLayout = "02/01/2006"

// Table constants
const (
	// DateColumn is the label of the column holding the observation dates
	DateColumn = "Date"
	// PlaceholderPrefix is the label given to unnamed header cells
	PlaceholderPrefix = "Unnamed"
	// GenericProductLabel is the product label used by the single-product export
	GenericProductLabel = "Number Sold"
	// GenericProductName is what GenericProductLabel is renamed to
	GenericProductName = "Croissant"
)

// Model constants
const (
	// DaysPerWeek is the size of one aggregation block
	DaysPerWeek = 7
	// SeasonalPeriod is the seasonal period of the model (weekly)
	SeasonalPeriod = 7
	// DecimalPrecision is the precision for rounding (2 decimal places)
	DecimalPrecision = 100
)

// Training week constants
const (
	// DefaultTrainingWeeks is the number of forecast weeks when none is given
	DefaultTrainingWeeks = 4
	// MinTrainingWeeks is the smallest selectable number of weeks
	MinTrainingWeeks = 4
	// MaxTrainingWeeks is the largest selectable number of weeks
	MaxTrainingWeeks = 12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
	// DefaultEnvFile is the optional dotenv file read before the configuration
	DefaultEnvFile = ".env"
)

// Input defaults
const (
	// DefaultMaxFileSizeBytes is the default maximum size of an input file (10 MB)
	DefaultMaxFileSizeBytes int64 = 10 * 1024 * 1024
	// DefaultWorkers is the default number of products fitted concurrently
	DefaultWorkers = 4
	// MaxWorkers is the worker count above which configuration validation warns
	MaxWorkers = 64
)
