package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Sheets     SheetsConfig
	Reference  ReferenceConfig
	Estimation EstimationConfig
	Advisory   AdvisoryConfig
	AI         AIConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
// Leaving SpreadsheetID empty disables the sheet backed reference table and
// report export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ReferenceRange  string
	ReportRange     string
}

// Enabled reports whether a spreadsheet is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// ReferenceConfig controls how often the reference table is reloaded.
type ReferenceConfig struct {
	RefreshCron string
}

// EstimationConfig holds caller side policy for estimation runs.
type EstimationConfig struct {
	MaxEntries int
}

// AdvisoryConfig points at the remote crop recommendation service.
type AdvisoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AIConfig holds settings for LLM providers. An empty key disables AI lookups.
type AIConfig struct {
	AnthropicKey string
}

// MongoDBConfig holds settings for MongoDB. An empty URI keeps reports in memory.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	maxEntries, err := getenvInt("ESTIMATION_MAX_ENTRIES", 5)
	if err != nil {
		return nil, err
	}

	timeoutSeconds, err := getenvInt("ADVISORY_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ReferenceRange:  getenvWithDefault("REFERENCE_SHEET_RANGE", "Reference!A:C"),
			ReportRange:     getenvWithDefault("REPORT_SHEET_RANGE", "YieldReports!A:H"),
		},
		Reference: ReferenceConfig{
			RefreshCron: getenvWithDefault("REFERENCE_REFRESH_CRON", "0 */6 * * *"),
		},
		Estimation: EstimationConfig{
			MaxEntries: maxEntries,
		},
		Advisory: AdvisoryConfig{
			BaseURL: getenvWithDefault("ADVISORY_BASE_URL", "http://127.0.0.1:8000"),
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "agriadvisor"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Estimation.MaxEntries < 0 {
		return errors.New("ESTIMATION_MAX_ENTRIES must not be negative")
	}

	if c.Advisory.BaseURL == "" {
		return errors.New("ADVISORY_BASE_URL must not be empty")
	}

	if c.Advisory.Timeout <= 0 {
		return errors.New("ADVISORY_TIMEOUT_SECONDS must be positive")
	}

	if c.Sheets.Enabled() {
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
		case c.Sheets.ReferenceRange == "":
			return errors.New("REFERENCE_SHEET_RANGE must not be empty")
		case c.Sheets.ReportRange == "":
			return errors.New("REPORT_SHEET_RANGE must not be empty")
		case c.Reference.RefreshCron == "":
			return errors.New("REFERENCE_REFRESH_CRON must be provided")
		}
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
