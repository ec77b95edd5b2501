package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token schemes supported by the auth layer.
const (
	TokenSchemeJWT    = "jwt"
	TokenSchemePaseto = "paseto"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            string
	Env             string // dev or prod
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustedOrigins  []string // CORS allowed origins
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ChannelBinding string // "require" for Neon DB, empty for local
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	// TokenScheme selects the bearer token implementation: "jwt" or "paseto".
	TokenScheme string
	// TokenSecret signs JWT tokens; for PASETO v4.local it must be exactly 32 bytes.
	TokenSecret []byte
	TokenTTL    time.Duration
	// VerifySignature controls whether JWT parsing checks the HS256 signature.
	// The upstream system decoded tokens without verification, so the default
	// is false; set TOKEN_VERIFY_SIGNATURE=true to enforce signatures.
	VerifySignature bool
}

// Load reads configuration from environment variables
// Call godotenv.Load() before this if using .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "dev"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			TrustedOrigins:  getSliceEnv("TRUSTED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "pinshare"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ChannelBinding: getEnv("DB_CHANNEL_BINDING", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenScheme:     getEnv("TOKEN_SCHEME", TokenSchemeJWT),
			TokenSecret:     []byte(getEnv("TOKEN_KEY", "")),
			TokenTTL:        getDurationEnv("TOKEN_TTL", 24*time.Hour),
			VerifySignature: getBoolEnv("TOKEN_VERIFY_SIGNATURE", false),
		},
	}

	switch cfg.Auth.TokenScheme {
	case TokenSchemeJWT:
		if len(cfg.Auth.TokenSecret) == 0 {
			return nil, fmt.Errorf("TOKEN_KEY must be set")
		}
	case TokenSchemePaseto:
		// PASETO v4.local requires a 32-byte symmetric key
		if len(cfg.Auth.TokenSecret) != 32 {
			return nil, fmt.Errorf("TOKEN_KEY must be exactly 32 bytes for paseto, got %d", len(cfg.Auth.TokenSecret))
		}
	default:
		return nil, fmt.Errorf("unknown TOKEN_SCHEME %q", cfg.Auth.TokenScheme)
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Split by comma and trim whitespace
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
