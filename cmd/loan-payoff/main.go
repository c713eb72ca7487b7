package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/loan-payoff/internal/cache"
	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/internal/config"
	"github.com/iwvelando/loan-payoff/internal/logging"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/iwvelando/loan-payoff/pkg/output"
	"github.com/iwvelando/loan-payoff/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	scheduleFlag := flag.String("schedule", "", "schedule written in csv format: base, prepayment")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	scheduleName := conf.Output.Schedule
	if *scheduleFlag != "" {
		scheduleName = *scheduleFlag
	}
	if err := validation.ValidateScheduleName(scheduleName); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx := context.Background()
	store, closeCache, err := cache.Open[*calculator.Result](ctx, logger, cache.Options{
		Size:         conf.Cache.Size,
		TTL:          conf.Cache.TTL,
		RedisAddress: conf.Cache.RedisAddress,
		KeyPrefix:    constants.DefaultCacheKeyPrefix,
	})
	if err != nil {
		logger.Fatal("failed to open result cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("failed to close result cache", zap.String("op", "main"), zap.Error(err))
		}
	}()

	calc, err := calculator.New(logger, conf.Limits, store)
	if err != nil {
		logger.Fatal("failed to create calculator",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Calculate every configured loan.
	requests := conf.Requests()
	results := make([]*calculator.Result, 0, len(requests))
	for _, req := range requests {
		result, err := calc.Calculate(ctx, req)
		if err != nil {
			logger.Fatal("failed to calculate loan",
				zap.String("op", "main"),
				zap.String("loan", req.Name),
				zap.Error(err),
			)
		}
		results = append(results, result)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, results, !conf.Output.HideSchedule)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, results, scheduleName)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
