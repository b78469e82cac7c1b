package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL        string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string // channel-tagged originating address, e.g. "whatsapp:+14155238886"
	DefaultCountryCode string // country code prefixed during phone normalization
	LogLevel           string
	Environment        string
	CronSpecQuotaReset string // daily quota cycle reset job
	CronSpecDispatch   string // daily reminder dispatch job, must fire after the reset
}

// MessagingConfigured reports whether the outbound channel credentials are
// complete. Missing credentials disable dispatch but never fail Load.
func (c *AppConfig) MessagingConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	// Channel credentials are optional by design: without them the process
	// still serves CRUD and quota resets, only dispatch is disabled.
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = os.Getenv("TWILIO_FROM_NUMBER")

	cfg.DefaultCountryCode = os.Getenv("DEFAULT_COUNTRY_CODE")
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "964"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecQuotaReset = os.Getenv("CRON_SPEC_QUOTA_RESET")
	if cfg.CronSpecQuotaReset == "" {
		cfg.CronSpecQuotaReset = "0 8 * * *" // Default: 08:00 daily
	}

	cfg.CronSpecDispatch = os.Getenv("CRON_SPEC_DISPATCH")
	if cfg.CronSpecDispatch == "" {
		cfg.CronSpecDispatch = "0 9 * * *" // Default: 09:00 daily, after the reset job
	}

	return cfg, nil
}
