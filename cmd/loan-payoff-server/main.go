package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-payoff/internal/cache"
	"github.com/iwvelando/loan-payoff/internal/calculator"
	"github.com/iwvelando/loan-payoff/internal/logging"
	"github.com/iwvelando/loan-payoff/internal/server"
	"github.com/iwvelando/loan-payoff/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing .env file is not an error
	_ = godotenv.Load()

	conf, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	conf.ApplyEnvironment(os.LookupEnv)

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	store, closeCache, err := cache.Open[*calculator.Result](startCtx, logger, cache.Options{
		Size:         conf.Cache.Size,
		TTL:          conf.Cache.TTL,
		RedisAddress: conf.Cache.RedisAddress,
		KeyPrefix:    conf.Cache.KeyPrefix,
	})
	cancelStart()
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

	handler := server.NewHandler(logger, calc, conf.RequestSizeBytes(), version)
	if conf.RateLimit.Requests > 0 {
		limiter := server.NewRateLimiter(conf.RateLimit.Requests, conf.RateLimit.Window)
		defer limiter.Stop()
		handler = server.RateLimitMiddleware(limiter, logger, handler)
	}

	srv := &http.Server{
		Addr:         conf.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main"),
			zap.String("address", conf.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return
	case sig := <-quit:
		logger.Info("shutting down",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
