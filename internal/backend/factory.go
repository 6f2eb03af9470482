package backend

import (
	"errors"
	"fmt"

	"expensetracker/internal/credentials"
	applog "expensetracker/internal/log"
	"expensetracker/internal/secrets"
	"expensetracker/internal/session"
	gsheet "expensetracker/internal/sheets/google"
	"expensetracker/internal/sheets/memory"
)

// Factory creates worksheets based on configuration.
type Factory struct {
	logger *applog.Logger
	open   session.OpenFunc
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{logger: logger, open: session.GoogleOpener}
}

// Create resolves everything the worksheet needs up front. A non-nil error
// means the app must run halted. No network call is made here; the sheets
// session authenticates on first use.
func (f *Factory) Create(cfg Config) (*Result, error) {
	switch cfg.Type {
	case SheetsBackend:
		return f.createSheets(cfg)
	case MemoryBackend:
		return f.createMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createSheets(cfg Config) (*Result, error) {
	store, err := secrets.Load(cfg.SecretsFile)
	if err != nil {
		return nil, err
	}

	cred, credErr := credentials.Resolver{Secrets: store, File: cfg.ServiceAccountFile}.Resolve()
	key, keyErr := gsheet.ResolveSheetKey(store, cfg.SheetKey)
	if err := errors.Join(credErr, keyErr); err != nil {
		return nil, err
	}

	f.logger.WithComponent(applog.ComponentCredentials).Info("Resolved Google Sheets configuration",
		applog.FieldSource, string(cred.Source),
		"key", cred.Fingerprint(),
		applog.FieldSpreadsheet, key)

	return &Result{
		Worksheet: session.New(cred, key, f.open, f.logger),
		Source:    string(cred.Source),
	}, nil
}

func (f *Factory) createMemory(cfg Config) (*Result, error) {
	store, err := memory.NewFromFile(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load memory seed: %w", err)
	}

	f.logger.Info("Initialized memory backend", "seed_file", cfg.SeedFile)

	return &Result{Worksheet: store, Source: "memory"}, nil
}
