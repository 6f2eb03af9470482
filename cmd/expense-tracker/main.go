package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
	ports "expensetracker/internal/sheets"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	ws, setupErr := buildWorksheet(cfg, logger)
	if setupErr != nil {
		logger.Error("Configuration error, serving the error page only",
			applog.FieldOperation, applog.OpStartup,
			applog.FieldErrorType, applog.ErrorTypeConfiguration,
			applog.FieldError, setupErr)
	}

	srv := apphttp.NewServer(":"+cfg.Port, ws, apphttp.Options{
		DefaultBudget:   cfg.MonthlyBudget,
		BudgetStep:      cfg.BudgetStep,
		CurrencySymbol:  cfg.CurrencySymbol,
		SetupErr:        setupErr,
		AppendRateLimit: cfg.AppendRateLimit,
		Logger:          logger,
	})

	// Sheets calls may take a while on a cold token; keep the write timeout generous.
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	done := cli.GracefulShutdown(logger, 30*time.Second, srv.Shutdown)

	logger.Info("Starting expense tracker", "port", cfg.Port, "backend", cfg.DataBackend, "halted", srv.Halted())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}

// buildWorksheet picks the backend from the app config. A non-nil error
// means the app must run halted.
func buildWorksheet(cfg *config.Config, logger *applog.Logger) (ports.Worksheet, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).Create(bcfg)
	if err != nil {
		return nil, err
	}
	return res.Worksheet, nil
}
