// Package backend builds the worksheet the web app talks to.
package backend

import (
	"fmt"

	"expensetracker/internal/config"
	"expensetracker/internal/sheets"
)

// Type selects where expenses are stored.
type Type string

const (
	SheetsBackend Type = config.BackendSheets
	MemoryBackend Type = config.BackendMemory
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds everything needed to build a worksheet.
type Config struct {
	Type Type

	// Google Sheets
	SecretsFile        string
	ServiceAccountFile string
	SheetKey           string

	// Memory
	SeedFile string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:               t,
		SecretsFile:        appConfig.SecretsFile,
		ServiceAccountFile: appConfig.ServiceAccountFile,
		SheetKey:           appConfig.SheetKey,
		SeedFile:           appConfig.MemorySeedFile,
	}, nil
}

// Result is the built worksheet.
type Result struct {
	Worksheet sheets.Worksheet
	// Source names where the worksheet came from, for logs.
	Source string
}
