package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/iwvelando/deal-underwriter/internal/config"
	"github.com/iwvelando/deal-underwriter/internal/engine"
	"github.com/iwvelando/deal-underwriter/internal/server"
	"github.com/iwvelando/deal-underwriter/internal/store"
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/deal"
	"github.com/iwvelando/deal-underwriter/pkg/output"
	"github.com/iwvelando/deal-underwriter/pkg/sensitivity"
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

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// buildStore selects the scenario persistence backend from config.
func buildStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "file":
		dir := cfg.Directory
		if dir == "" {
			dir = "scenarios"
		}
		return store.NewFileStore(dir)
	case "redis":
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		return store.NewRedisStore(addr, cfg.RedisDB), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to deal configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a one-shot analysis")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	eng := engine.New(logger)

	if *serve {
		scenarios, err := buildStore(conf.Store)
		if err != nil {
			logger.Fatal("failed to initialize scenario store",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		address := conf.Server.Address
		if address == "" {
			address = constants.DefaultServerAddress
		}
		handler := server.NewHandler(logger, eng, scenarios, conf.Server.MaxBodySize)
		logger.Info("serving underwriting API",
			zap.String("op", "main"),
			zap.String("address", address),
		)
		if err := http.ListenAndServe(address, handler); err != nil {
			logger.Fatal("server exited",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty &&
		outputFormat != constants.OutputFormatCSV &&
		outputFormat != constants.OutputFormatJSON {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	if err := runAnalysis(logger, eng, conf, outputFormat); err != nil {
		logger.Fatal("analysis failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// runAnalysis executes the configured calculator and prints the result.
func runAnalysis(logger *zap.Logger, eng *engine.Engine, conf *config.Configuration, outputFormat string) error {
	inputs, err := conf.SelectedInputs()
	if err != nil {
		return err
	}

	switch in := inputs.(type) {
	case deal.UnderwritingInputs:
		result, err := eng.RunUnderwriting(in)
		if err != nil {
			return err
		}
		if !result.Validation.IsValid {
			return reportInvalid(logger, result.Validation.Errors)
		}
		if outputFormat == constants.OutputFormatJSON {
			return output.JSONResult(os.Stdout, result)
		}
		output.PrettyUnderwriting(os.Stdout, result)
		if conf.Sensitivity != nil {
			table, err := eng.GenerateUnderwritingSensitivity(in, engine.UnderwritingField(conf.Sensitivity.Field), conf.Sensitivity.Perturbations)
			if err != nil {
				return err
			}
			printSensitivity(table, outputFormat)
		}
	case deal.BRRRRInputs:
		result, err := eng.RunBRRRR(in)
		if err != nil {
			return err
		}
		if !result.Validation.IsValid {
			return reportInvalid(logger, result.Validation.Errors)
		}
		if outputFormat == constants.OutputFormatJSON {
			return output.JSONResult(os.Stdout, result)
		}
		output.PrettyBRRRR(os.Stdout, result)
		if conf.Sensitivity != nil {
			table, err := eng.GenerateBRRRRSensitivity(in, engine.BRRRRField(conf.Sensitivity.Field), conf.Sensitivity.Perturbations)
			if err != nil {
				return err
			}
			printSensitivity(table, outputFormat)
		}
	case deal.SyndicationInputs:
		result, err := eng.RunSyndication(in)
		if err != nil {
			return err
		}
		if !result.Validation.IsValid {
			return reportInvalid(logger, result.Validation.Errors)
		}
		if outputFormat == constants.OutputFormatJSON {
			return output.JSONResult(os.Stdout, result)
		}
		output.PrettySyndication(os.Stdout, result)
		if conf.Sensitivity != nil {
			table, err := eng.GenerateSyndicationSensitivity(in, engine.SyndicationField(conf.Sensitivity.Field), conf.Sensitivity.Perturbations)
			if err != nil {
				return err
			}
			printSensitivity(table, outputFormat)
		}
	default:
		return fmt.Errorf("unsupported input type %T", inputs)
	}

	return nil
}

func reportInvalid(logger *zap.Logger, errs []deal.ValidationError) error {
	for _, e := range errs {
		logger.Error("validation error: "+e.Error(),
			zap.String("op", "main"),
		)
	}
	return fmt.Errorf("deal inputs failed validation with %d error(s)", len(errs))
}

func printSensitivity(table sensitivity.Table, outputFormat string) {
	if outputFormat == constants.OutputFormatCSV {
		output.CsvSensitivity(os.Stdout, table)
		return
	}
	output.PrettySensitivity(os.Stdout, table)
}
