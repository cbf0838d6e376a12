package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string

	// AcceptBonusMultiplier scales the submission bonus when an idea is
	// approved. 1 leaves the award unchanged.
	AcceptBonusMultiplier decimal.Decimal

	// AutoAssignReviewer picks a random reviewer at submission time when true.
	AutoAssignReviewer bool

	// StoreTimeout bounds every database call made on behalf of a request.
	StoreTimeout time.Duration

	// StatsInterval controls how often the platform stats snapshot job runs.
	StatsInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	multiplier, err := decimal.NewFromString(getEnv("ACCEPT_BONUS_MULTIPLIER", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCEPT_BONUS_MULTIPLIER: %w", err)
	}

	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}

	statsInterval, err := time.ParseDuration(getEnv("STATS_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}

	autoAssign, err := strconv.ParseBool(getEnv("AUTO_ASSIGN_REVIEWER", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_ASSIGN_REVIEWER: %w", err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "idea_central"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
		},
		App: AppConfig{
			JWTSecret:             getEnv("JWT_SECRET", ""),
			AcceptBonusMultiplier: multiplier,
			AutoAssignReviewer:    autoAssign,
			StoreTimeout:          storeTimeout,
			StatsInterval:         statsInterval,
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.App.AcceptBonusMultiplier.IsNegative() {
		return nil, fmt.Errorf("ACCEPT_BONUS_MULTIPLIER must not be negative")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
