package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"swingplanner/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Calculator defaults
	AccountSize         float64
	RiskPercentage      float64   // Percent of the account to risk, e.g. 1.0 for 1%
	ScenarioPercentages []float64 // Candidate risk percentages for the scenario table
	MaxTargets          int

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel // Use the LogLevel type from the logger adapter
	LogFormat string          // console or json

	// Ticker analysis (optional)
	GeminiAPIKey        string
	AnalysisModel       string
	AnalysisTimeout     time.Duration
	AnalysisMaxRetries  int
	AnalysisTemperature float64
}

// AnalysisEnabled reports whether an API key for the ticker scout is configured.
func (c *Config) AnalysisEnabled() bool {
	return c.GeminiAPIKey != ""
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Calculator defaults
	cfg.AccountSize, err = getEnvAsFloatRequired("ACCOUNT_SIZE", 10000)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ACCOUNT_SIZE: %v", err))
	} else if cfg.AccountSize < 0 {
		errs = append(errs, "ACCOUNT_SIZE cannot be negative")
	}

	cfg.RiskPercentage, err = getEnvAsFloatRequired("RISK_PERCENTAGE", 1.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_PERCENTAGE: %v", err))
	} else if cfg.RiskPercentage < 0 || cfg.RiskPercentage > 100 {
		errs = append(errs, "RISK_PERCENTAGE must be between 0 and 100")
	}

	cfg.ScenarioPercentages, err = getEnvAsFloatList("SCENARIO_RISK_PERCENTAGES", []float64{0.25, 0.33, 0.5, 0.66, 0.75, 1.0, 1.5})
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SCENARIO_RISK_PERCENTAGES: %v", err))
	}

	cfg.MaxTargets, err = getEnvAsIntRequired("MAX_TARGETS", 4)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_TARGETS: %v", err))
	} else if cfg.MaxTargets < 1 || cfg.MaxTargets > 4 {
		errs = append(errs, "MAX_TARGETS must be between 1 and 4")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/swingplanner.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", logger.FormatConsole))
	if cfg.LogFormat != logger.FormatConsole && cfg.LogFormat != logger.FormatJSON {
		errs = append(errs, "LOG_FORMAT must be console or json")
	}

	// Ticker analysis
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	cfg.AnalysisModel = getEnv("ANALYSIS_MODEL", "gemini-2.5-flash")

	timeoutSeconds := getEnvAsInt("ANALYSIS_TIMEOUT_SECONDS", 30)
	if timeoutSeconds <= 0 {
		errs = append(errs, "ANALYSIS_TIMEOUT_SECONDS must be positive")
	}
	cfg.AnalysisTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.AnalysisMaxRetries = getEnvAsInt("ANALYSIS_MAX_RETRIES", 3)
	if cfg.AnalysisMaxRetries < 0 {
		errs = append(errs, "ANALYSIS_MAX_RETRIES cannot be negative")
	}

	cfg.AnalysisTemperature, err = getEnvAsFloatRequired("ANALYSIS_TEMPERATURE", 0.3)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ANALYSIS_TEMPERATURE: %v", err))
	} else if cfg.AnalysisTemperature < 0 || cfg.AnalysisTemperature > 2 {
		errs = append(errs, "ANALYSIS_TEMPERATURE must be between 0 and 2")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

// getEnvAsFloatList parses a comma-separated list of floats. Blank items are skipped.
func getEnvAsFloatList(key string, defaultValue []float64) ([]float64, error) {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue, nil
	}
	var values []float64
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float value '%s' for key %s: %w", part, key, err)
		}
		values = append(values, value)
	}
	return values, nil
}
