package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/ForexAdvisor/internal/database"
	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DriverMemory keeps profiles in process memory only.
const DriverMemory = database.DriverMemory

// Config holds all application configuration
type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile          string `env:"LOG_FILE" envDefault:"logs/forex_bot.log"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"memory"` // memory, postgres, sqlite3
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	DBPath     string `env:"DB_PATH" envDefault:"data/profiles.db"`

	DefaultAccountSize  decimal.Decimal `env:"DEFAULT_ACCOUNT_SIZE" envDefault:"5000"`
	DefaultRiskPerTrade decimal.Decimal `env:"DEFAULT_RISK_PER_TRADE" envDefault:"60"`
	DefaultSession      string          `env:"DEFAULT_SESSION" envDefault:"all"`

	RecommendationCount int    `env:"RECOMMENDATION_COUNT" envDefault:"3"`
	CatalogPath         string `env:"CATALOG_PATH"`

	RequestTimeout int `env:"REQUEST_TIMEOUT" envDefault:"90"` // seconds, must exceed the long-poll timeout
	RequestsPerSec int `env:"REQUESTS_PER_SEC" envDefault:"25"`
	UpdateWorkers  int `env:"UPDATE_WORKERS" envDefault:"8"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config
	var err error

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.LogFile = getEnvWithDefault("LOG_FILE", "logs/forex_bot.log")

	cfg.DBDriver = getEnvWithDefault("DB_DRIVER", DriverMemory)
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")
	cfg.DBPath = getEnvWithDefault("DB_PATH", "data/profiles.db")

	if cfg.DefaultAccountSize, err = getEnvDecimalWithDefault("DEFAULT_ACCOUNT_SIZE", "5000"); err != nil {
		return nil, err
	}
	if cfg.DefaultRiskPerTrade, err = getEnvDecimalWithDefault("DEFAULT_RISK_PER_TRADE", "60"); err != nil {
		return nil, err
	}
	cfg.DefaultSession = getEnvWithDefault("DEFAULT_SESSION", string(models.SessionAll))

	if cfg.RecommendationCount, err = getEnvIntWithDefault("RECOMMENDATION_COUNT", 3); err != nil {
		return nil, err
	}
	cfg.CatalogPath = os.Getenv("CATALOG_PATH")

	if cfg.RequestTimeout, err = getEnvIntWithDefault("REQUEST_TIMEOUT", 90); err != nil {
		return nil, err
	}
	if cfg.RequestsPerSec, err = getEnvIntWithDefault("REQUESTS_PER_SEC", 25); err != nil {
		return nil, err
	}
	if cfg.UpdateWorkers, err = getEnvIntWithDefault("UPDATE_WORKERS", 8); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory, database.DriverSQLite:
	case database.DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be memory, postgres or sqlite3, got %q", c.DBDriver)
	}
	if !c.DefaultAccountSize.IsPositive() {
		return fmt.Errorf("DEFAULT_ACCOUNT_SIZE must be greater than zero")
	}
	if !c.DefaultRiskPerTrade.IsPositive() {
		return fmt.Errorf("DEFAULT_RISK_PER_TRADE must be greater than zero")
	}
	if _, err := models.ParseSession(c.DefaultSession); err != nil {
		return fmt.Errorf("DEFAULT_SESSION: %w", err)
	}
	if c.RecommendationCount < 1 {
		return fmt.Errorf("RECOMMENDATION_COUNT must be at least 1")
	}
	if c.RequestTimeout < 1 {
		return fmt.Errorf("REQUEST_TIMEOUT must be at least 1 second")
	}
	if c.RequestsPerSec < 1 {
		return fmt.Errorf("REQUESTS_PER_SEC must be at least 1")
	}
	if c.UpdateWorkers < 1 {
		return fmt.Errorf("UPDATE_WORKERS must be at least 1")
	}
	return nil
}

// DefaultProfile is the profile given to users who have not changed their settings
func (c *Config) DefaultProfile() models.RiskProfile {
	session, _ := models.ParseSession(c.DefaultSession)
	return models.RiskProfile{
		AccountSize:      c.DefaultAccountSize,
		RiskPerTrade:     c.DefaultRiskPerTrade,
		PreferredSession: session,
	}
}

// ConnectionParams maps the DB_* settings for the database package
func (c *Config) ConnectionParams() database.ConnectionParams {
	return database.ConnectionParams{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return intValue, nil
}

func getEnvDecimalWithDefault(key, defaultValue string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(getEnvWithDefault(key, defaultValue))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
