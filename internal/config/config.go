package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selected by the DATABASE_URL scheme.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Admin guard configuration
	Auth AuthConfig

	// Allowed CORS origins
	CORS CORSConfig

	// Contact relay configuration
	Contact ContactConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds store connection settings
type DatabaseConfig struct {
	URL            string
	Driver         string // derived from the URL scheme
	Name           string // MongoDB database when the URL names none
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	ConnectTimeout time.Duration
}

// AuthConfig holds the admin guard settings. An empty secret disables the guard.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string
}

// AllowAll reports whether every origin is allowed.
func (c CORSConfig) AllowAll() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return len(c.AllowedOrigins) == 0
}

// ContactConfig holds the contact relay settings
type ContactConfig struct {
	Recipient string // address contact messages are delivered to
	RateLimit int    // submissions per minute per client, 0 disables
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from a .env file, when present, and the environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may carry everything
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv reads configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", os.Getenv("MONGO_URI")),
			Name:           getEnv("DB_NAME", "portfolio"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout: getDurationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		Auth: AuthFromEnv(),
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),
		},
		Contact: ContactConfig{
			Recipient: getEnv("CONTACT_RECIPIENT", "owner@localhost"),
			RateLimit: getIntEnv("CONTACT_RATE_LIMIT", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if os.Getenv("ENV") == "development" && os.Getenv("LOG_FORMAT") == "" {
		cfg.Log.Format = "pretty"
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuthFromEnv reads only the admin token settings. Commands that mint tokens
// use it without needing a store connection string.
func AuthFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		TokenTTL:  getDurationEnv("ADMIN_TOKEN_TTL", 24*time.Hour),
	}
}

// Validate checks if the configuration is valid and derives the store driver.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	driver, err := DetectDriver(c.Database.URL)
	if err != nil {
		return err
	}
	c.Database.Driver = driver

	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Server.Port)
	}
	for _, o := range c.CORS.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must start with http:// or https://", o)
		}
	}
	return nil
}

// DetectDriver maps a connection string scheme to a store driver.
func DetectDriver(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("DATABASE_URL has an unsupported scheme, want postgres:// or mongodb://")
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
