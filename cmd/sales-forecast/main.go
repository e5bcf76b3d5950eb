package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/dashboard"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/output"
	"github.com/iwvelando/sales-forecast/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	// Reports go to stdout, so logs default to stderr.
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// loadEnvFile reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q, \"error\": %q}\n", msg, fmt.Sprint(err))
	os.Exit(1)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "optional dotenv file read before the configuration")
	inputFlag := flag.String("input", "", "sales file to forecast (.csv or .xlsx), overrides input.path")
	weeksFlag := flag.Int("weeks", 0, fmt.Sprintf("training weeks to forecast (%d-%d), overrides forecast.trainingWeeks",
		constants.MinTrainingWeeks, constants.MaxTrainingWeeks))
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		fatal("failed to load environment file", err)
	}

	conf, found, err := config.LoadOptionalConfiguration(*configLocation)
	if err != nil {
		fatal(fmt.Sprintf("failed to load configuration at %s", *configLocation), err)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fatal("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if !found {
		logger.Info(fmt.Sprintf("no configuration at %s, using defaults", *configLocation),
			zap.String("op", "main"),
		)
	}

	// CLI overrides take precedence over config.
	if *inputFlag != "" {
		conf.Input.Path = *inputFlag
	}
	if *weeksFlag != 0 {
		conf.Forecast.TrainingWeeks = *weeksFlag
	}
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	if conf.Input.Path == "" {
		logger.Fatal("no input file to forecast",
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := dashboard.New(logger, dashboard.Options{
		Workers:     conf.Forecast.Workers,
		MaxFileSize: conf.MaxFileSizeBytes(),
	})
	if _, err := session.SetTrainingWeeks(ctx, conf.Forecast.TrainingWeeks); err != nil {
		logger.Fatal("invalid training weeks",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report, err := session.Load(ctx, conf.Input.Path)
	if err != nil {
		logger.Fatal("failed to compute forecast",
			zap.String("op", "main"),
			zap.String("input", conf.Input.Path),
			zap.Error(err),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, report); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
