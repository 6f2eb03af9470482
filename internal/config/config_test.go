package config

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validConfig() Config {
	return Config{
		Port:               "8081",
		DataBackend:        BackendSheets,
		SecretsFile:        "secrets.toml",
		ServiceAccountFile: "service_account.json",
		MonthlyBudget:      decimal.NewFromInt(15000),
		BudgetStep:         decimal.NewFromInt(500),
		CurrencySymbol:     "₹",
		AppendRateLimit:    30,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sheets config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "valid memory config without service account path",
			mutate:  func(c *Config) { c.DataBackend = BackendMemory; c.ServiceAccountFile = "" },
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sqlite" },
			wantErr:     true,
			errorString: "invalid data backend 'sqlite': must be one of [sheets memory]",
		},
		{
			name:        "negative budget",
			mutate:      func(c *Config) { c.MonthlyBudget = decimal.NewFromInt(-1) },
			wantErr:     true,
			errorString: "invalid monthly budget -1: must not be negative",
		},
		{
			name:        "zero budget step",
			mutate:      func(c *Config) { c.BudgetStep = decimal.Zero },
			wantErr:     true,
			errorString: "invalid budget step 0: must be positive",
		},
		{
			name:        "zero append rate limit",
			mutate:      func(c *Config) { c.AppendRateLimit = 0 },
			wantErr:     true,
			errorString: "invalid append rate limit 0: must be positive",
		},
		{
			name:        "sheets backend without service account path",
			mutate:      func(c *Config) { c.ServiceAccountFile = " " },
			wantErr:     true,
			errorString: "service account file path cannot be empty when using sheets backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("expected error to contain %q, got %q", tt.errorString, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "x"
	cfg.DataBackend = "nope"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Count(err.Error(), "\n- ") != 2 {
		t.Fatalf("expected two problems, got %q", err.Error())
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATA_BACKEND", "SECRETS_FILE", "GOOGLE_SERVICE_ACCOUNT_FILE", "GSHEET_KEY", "MONTHLY_BUDGET", "BUDGET_STEP", "CURRENCY_SYMBOL", "APPEND_RATE_LIMIT", "MEMORY_SEED_FILE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8081" || cfg.DataBackend != BackendSheets {
		t.Errorf("unexpected defaults: port=%s backend=%s", cfg.Port, cfg.DataBackend)
	}
	if cfg.ServiceAccountFile != "service_account.json" || cfg.SecretsFile != "secrets.toml" {
		t.Errorf("unexpected credential sources: %s, %s", cfg.ServiceAccountFile, cfg.SecretsFile)
	}
	if !cfg.MonthlyBudget.Equal(decimal.NewFromInt(15000)) || !cfg.BudgetStep.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected budget defaults: %s step %s", cfg.MonthlyBudget, cfg.BudgetStep)
	}
	if cfg.AppendRateLimit != 30 {
		t.Errorf("append rate limit = %d", cfg.AppendRateLimit)
	}
	if cfg.SheetKey != "" {
		t.Errorf("sheet key should be empty, got %q", cfg.SheetKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("GSHEET_KEY", " abc123 ")
	t.Setenv("MONTHLY_BUDGET", "20000.50")
	t.Setenv("BUDGET_STEP", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != BackendMemory {
		t.Errorf("unexpected values: port=%s backend=%s", cfg.Port, cfg.DataBackend)
	}
	if cfg.SheetKey != "abc123" {
		t.Errorf("sheet key = %q", cfg.SheetKey)
	}
	if cfg.MonthlyBudget.String() != "20000.5" {
		t.Errorf("budget = %s", cfg.MonthlyBudget)
	}
	if !cfg.BudgetStep.Equal(decimal.NewFromInt(500)) {
		t.Errorf("invalid BUDGET_STEP should fall back to default, got %s", cfg.BudgetStep)
	}
}
