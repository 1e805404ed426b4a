package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Backends accepted by LEDGER_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Storage
	Backend    string
	DataDir    string
	SQLitePath string

	// Export
	ReportsDir string

	// Engine
	LowBalanceThreshold decimal.Decimal
	CategorizerCache    int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Backend:    getEnv("LEDGER_BACKEND", BackendFile),
		DataDir:    getEnv("LEDGER_DATA_DIR", "transactions"),
		SQLitePath: getEnv("LEDGER_SQLITE_PATH", filepath.Join("data", "ledger.db")),

		ReportsDir: getEnv("LEDGER_REPORTS_DIR", "financial_summary"),

		LowBalanceThreshold: getEnvDecimal("LEDGER_LOW_BALANCE", decimal.NewFromInt(100)),
		CategorizerCache:    getEnvInt("LEDGER_CATEGORIZER_CACHE", 512),

		LogLevel:  getEnv("LEDGER_LOG_LEVEL", "info"),
		LogFormat: getEnv("LEDGER_LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{BackendFile, BackendSQLite, BackendMemory}
	if !slices.Contains(validBackends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == BackendFile && c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty when using file backend")
	}

	if c.Backend == BackendSQLite {
		if c.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLitePath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.ReportsDir == "" {
		errors = append(errors, "reports directory cannot be empty")
	}

	if c.LowBalanceThreshold.IsNegative() {
		errors = append(errors, fmt.Sprintf("invalid low balance threshold %s: must not be negative", c.LowBalanceThreshold))
	}

	if c.CategorizerCache < 0 {
		errors = append(errors, fmt.Sprintf("invalid categorizer cache size %d: must not be negative", c.CategorizerCache))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
