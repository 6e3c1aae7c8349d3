package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credentials is the immutable tuple identifying the broker account.
// Supplied at construction, never mutated.
type Credentials struct {
	APIKey    string
	APISecret string
	UserID    string
	Password  string
	PIN       string
}

// Config holds all application configuration.
type Config struct {
	// Broker account
	Credentials Credentials

	// Default broker fields merged into every synthesized order
	Exchange string // e.g. NSE
	Product  string // e.g. MIS
	Validity string // e.g. DAY
	Variety  string // e.g. regular

	// Persistence
	TokenPath string // access-token file
	DBPath    string // order journal database

	// Interactive login
	LoginStepTimeout time.Duration // bounded wait per page step
	Headless         bool

	// Order cancellation
	CancelMaxAttempts int

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"
}

// Load reads configuration from environment variables (.env file).
func Load() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.Credentials = Credentials{
		APIKey:    getEnv("KITE_API_KEY", ""),
		APISecret: getEnv("KITE_API_SECRET", ""),
		UserID:    getEnv("KITE_USER_ID", ""),
		Password:  getEnv("KITE_PASSWORD", ""),
		PIN:       getEnv("KITE_PIN", ""),
	}
	if cfg.Credentials.APIKey == "" {
		errs = append(errs, "KITE_API_KEY must be set")
	}
	if cfg.Credentials.APISecret == "" {
		errs = append(errs, "KITE_API_SECRET must be set")
	}
	if cfg.Credentials.UserID == "" {
		errs = append(errs, "KITE_USER_ID must be set")
	}
	if cfg.Credentials.Password == "" {
		errs = append(errs, "KITE_PASSWORD must be set")
	}
	if cfg.Credentials.PIN == "" {
		errs = append(errs, "KITE_PIN must be set")
	}

	cfg.Exchange = getEnv("EXCHANGE", "NSE")
	cfg.Product = getEnv("PRODUCT", "MIS")
	cfg.Validity = getEnv("VALIDITY", "DAY")
	cfg.Variety = getEnv("VARIETY", "regular")

	cfg.TokenPath = getEnv("TOKEN_PATH", "./data/token.tok")
	cfg.DBPath = getEnv("DB_PATH", "./data/kitecover.db")

	stepTimeoutSeconds := getEnvAsInt("LOGIN_STEP_TIMEOUT_SECONDS", 45)
	if stepTimeoutSeconds <= 0 {
		errs = append(errs, "LOGIN_STEP_TIMEOUT_SECONDS must be positive")
	}
	cfg.LoginStepTimeout = time.Duration(stepTimeoutSeconds) * time.Second
	cfg.Headless = getEnvAsBool("HEADLESS", true)

	cfg.CancelMaxAttempts = getEnvAsInt("CANCEL_MAX_ATTEMPTS", 6)
	if cfg.CancelMaxAttempts <= 0 {
		errs = append(errs, "CANCEL_MAX_ATTEMPTS must be positive")
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be 'text' or 'json', got %q", cfg.LogFormat))
	}

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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
