package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// Secrets store and credential sources, in precedence order.
	SecretsFile        string
	ServiceAccountFile string
	// SheetKey is the GSHEET_KEY fallback when the secrets store has no gsheet_key.
	SheetKey string

	// Page defaults
	MonthlyBudget  decimal.Decimal
	BudgetStep     decimal.Decimal
	CurrencySymbol string

	// AppendRateLimit caps expense submissions per client per minute.
	AppendRateLimit int
	// MemorySeedFile optionally seeds the memory backend (CSV with header).
	MemorySeedFile string

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", BackendSheets),

		SecretsFile:        getEnv("SECRETS_FILE", "secrets.toml"),
		ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "service_account.json"),
		SheetKey:           strings.TrimSpace(os.Getenv("GSHEET_KEY")),

		MonthlyBudget:  getEnvDecimal("MONTHLY_BUDGET", decimal.NewFromInt(15000)),
		BudgetStep:     getEnvDecimal("BUDGET_STEP", decimal.NewFromInt(500)),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),

		AppendRateLimit: getEnvInt("APPEND_RATE_LIMIT", 30),
		MemorySeedFile:  getEnv("MEMORY_SEED_FILE", "data/seed_expenses.csv"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid.
// Credential and sheet key presence is checked by the resolvers, not here.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{BackendSheets, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.MonthlyBudget.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid monthly budget %s: must not be negative", c.MonthlyBudget))
	}
	if !c.BudgetStep.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid budget step %s: must be positive", c.BudgetStep))
	}

	if c.AppendRateLimit <= 0 {
		errors = append(errors, fmt.Sprintf("invalid append rate limit %d: must be positive", c.AppendRateLimit))
	}

	if c.DataBackend == BackendSheets && strings.TrimSpace(c.ServiceAccountFile) == "" {
		errors = append(errors, "service account file path cannot be empty when using sheets backend")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
