// Package cli holds the startup steps shared by the commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored; real environment variables win.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the app logger from the configured level and makes it
// the process default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config and its logger, or exits the process on validation failure.
func LoadAndValidateConfig() (*config.Config, *applog.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// ShutdownFunc stops a component within the given context.
type ShutdownFunc func(ctx context.Context) error

// GracefulShutdown calls shutdown on SIGINT or SIGTERM and returns a
// channel closed once it has returned.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, shutdown ShutdownFunc) <-chan struct{} {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return shutdownOn(sigChan, logger, timeout, shutdown)
}

func shutdownOn(sigChan <-chan os.Signal, logger *applog.Logger, timeout time.Duration, shutdown ShutdownFunc) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			logger.Error("Shutdown error", applog.FieldError, err)
			return
		}
		logger.Info("Shutdown complete")
	}()

	return done
}
