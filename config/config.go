package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/logger"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Billing  BillingConfig
	Feed     FeedConfig

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

type AppConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig selects the gorm dialector. Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver   string
	DSN      string
	LogLevel string // silent, error, warn, info
}

// AuthConfig carries the session signing key and the optional staff PINs.
// An empty PIN disables that gate.
type AuthConfig struct {
	JWTSecret   []byte
	RegisterPIN string
	LoginPIN    string
	OrderPIN    string
}

type BillingConfig struct {
	TaxRate             decimal.Decimal
	ReleaseTablesOn     string // "bill" or "payment"
	MergeDeleteAttempts int
}

type FeedConfig struct {
	Limit        int
	AMQPURL      string
	AMQPExchange string
}

const (
	ReleaseOnBill    = "bill"
	ReleaseOnPayment = "payment"
)

// Load reads .env (if present) and the environment into a validated Config
func Load() (*Config, error) {
	// It's okay if .env doesn't exist in production
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:      getEnv("DB_DSN", "restaurant.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		Auth: AuthConfig{
			JWTSecret:   []byte(getEnv("JWT_SECRET", "restaurant_admin_dev_secret")),
			RegisterPIN: getEnv("REGISTER_PIN", ""),
			LoginPIN:    getEnv("LOGIN_PIN", ""),
			OrderPIN:    getEnv("ORDER_PIN", ""),
		},
		Billing: BillingConfig{
			ReleaseTablesOn: strings.ToLower(getEnv("BILL_RELEASE_TABLES_ON", ReleaseOnBill)),
		},
		Feed: FeedConfig{
			AMQPURL:      getEnv("AMQP_URL", ""),
			AMQPExchange: getEnv("AMQP_EXCHANGE", "orders_feed"),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	var err error
	if cfg.Billing.TaxRate, err = decimal.NewFromString(getEnv("BILL_TAX_RATE", "0")); err != nil {
		return nil, fmt.Errorf("BILL_TAX_RATE: %w", err)
	}
	if cfg.Billing.MergeDeleteAttempts, err = strconv.Atoi(getEnv("MERGE_DELETE_ATTEMPTS", "3")); err != nil {
		return nil, fmt.Errorf("MERGE_DELETE_ATTEMPTS: %w", err)
	}
	if cfg.Feed.Limit, err = strconv.Atoi(getEnv("FEED_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("FEED_LIMIT: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if len(c.Auth.JWTSecret) == 0 {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Billing.TaxRate.IsNegative() || c.Billing.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("BILL_TAX_RATE must be between 0 and 1, got %s", c.Billing.TaxRate)
	}
	if c.Billing.ReleaseTablesOn != ReleaseOnBill && c.Billing.ReleaseTablesOn != ReleaseOnPayment {
		return fmt.Errorf("BILL_RELEASE_TABLES_ON must be %q or %q", ReleaseOnBill, ReleaseOnPayment)
	}
	if c.Billing.MergeDeleteAttempts < 1 {
		return fmt.Errorf("MERGE_DELETE_ATTEMPTS must be at least 1")
	}
	if c.Feed.Limit < 1 {
		return fmt.Errorf("FEED_LIMIT must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
