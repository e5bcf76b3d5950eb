// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SALES_FORECAST_FORECAST_TRAININGWEEKS.
const EnvPrefix = "SALES_FORECAST"

// Configuration holds all configuration for sales-forecast.
type Configuration struct {
	Forecast ForecastConfig `yaml:"forecast,omitempty"`
	Input    InputConfig    `yaml:"input,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`

	maxFileSizeBytes int64
}

// ForecastConfig holds the model run parameters.
type ForecastConfig struct {
	TrainingWeeks int `yaml:"trainingWeeks,omitempty"`
	Workers       int `yaml:"workers,omitempty"` // products fitted concurrently
}

// InputConfig points at the sales file.
type InputConfig struct {
	Path        string `yaml:"path,omitempty"`
	MaxFileSize string `yaml:"maxFileSize,omitempty"` // e.g. 512K, 10M
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, yaml
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("forecast.trainingWeeks", constants.DefaultTrainingWeeks)
	v.SetDefault("forecast.workers", constants.DefaultWorkers)
	v.SetDefault("input.path", "")
	v.SetDefault("input.maxFileSize", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

// LoadOptionalConfiguration behaves like LoadConfiguration but falls back to
// defaults (plus environment overrides) when configPath does not exist. The
// boolean reports whether a file was read.
func LoadOptionalConfiguration(configPath string) (*Configuration, bool, error) {
	if configPath != "" {
		_, err := os.Stat(configPath)
		if err == nil {
			conf, err := LoadConfiguration(configPath)
			return conf, err == nil, err
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("error reading config file, %w", err)
		}
	}

	conf, err := decode(newViper())
	return conf, false, err
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Configuration) normalize() error {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}

	if c.Forecast.TrainingWeeks == 0 {
		c.Forecast.TrainingWeeks = constants.DefaultTrainingWeeks
	}
	if err := validation.ValidateTrainingWeeks(c.Forecast.TrainingWeeks); err != nil {
		return err
	}
	if c.Forecast.Workers < 0 {
		return fmt.Errorf("forecast workers must not be negative, got %d", c.Forecast.Workers)
	}
	if c.Forecast.Workers == 0 {
		c.Forecast.Workers = constants.DefaultWorkers
	}

	size, err := ParseSize(c.Input.MaxFileSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxFileSizeBytes
	}
	c.maxFileSizeBytes = size
	return nil
}

// MaxFileSizeBytes returns the input size limit in bytes.
func (c *Configuration) MaxFileSizeBytes() int64 {
	if c.maxFileSizeBytes <= 0 {
		return constants.DefaultMaxFileSizeBytes
	}
	return c.maxFileSizeBytes
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Input.Path == "" {
		warnings = append(warnings, "no input file configured; pass one with -input")
	} else if info, err := os.Stat(c.Input.Path); err != nil {
		warnings = append(warnings, fmt.Sprintf("input file %s is not readable: %v", c.Input.Path, err))
	} else if info.Size() > c.MaxFileSizeBytes() {
		warnings = append(warnings, fmt.Sprintf("input file %s is %d bytes, above the %d byte limit",
			c.Input.Path, info.Size(), c.MaxFileSizeBytes()))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging level %s", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown logging format %s", c.Logging.Format))
	}

	if c.Forecast.Workers > constants.MaxWorkers {
		warnings = append(warnings, fmt.Sprintf("forecast workers %d exceeds %d; extra workers will sit idle",
			c.Forecast.Workers, constants.MaxWorkers))
	}

	return warnings
}
