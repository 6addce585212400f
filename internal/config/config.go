// Package config loads application configuration from environment variables,
// applying defaults for anything unset.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates configuration for the server.
type Config struct {
	HTTP     HTTPConfig
	Bank     BankConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// BankConfig identifies the bank instance. The code prefixes every issued
// account number.
type BankConfig struct {
	Name string
	Code string
}

// DatabaseConfig holds the PostgreSQL connection settings. An empty URL runs
// the server against the in-memory store.
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// RabbitMQConfig holds event publishing settings. An empty URL disables
// event publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultBankName        = "Okavango Bank"
	defaultBankCode        = "BK01"
	defaultExchange        = "bank.ledger"
	defaultTokenExpiry     = 15 * time.Minute
	defaultDBMaxConns      = 25
	defaultDBMinConns      = 5
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:            getEnv("SERVER_HOST", defaultHost),
			Port:            getEnvInt("SERVER_PORT", defaultPort),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Bank: BankConfig{
			Name: getEnv("BANK_NAME", defaultBankName),
			Code: getEnv("BANK_CODE", defaultBankCode),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getEnvInt("DATABASE_MAX_CONNS", defaultDBMaxConns)),
			MinConns: int32(getEnvInt("DATABASE_MIN_CONNS", defaultDBMinConns)),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", defaultExchange),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "dev-only-secret"),
			TokenExpiry: getEnvDuration("JWT_TOKEN_EXPIRY", defaultTokenExpiry),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLogLevel),
			Format: getEnv("LOG_FORMAT", defaultLogFormat),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
