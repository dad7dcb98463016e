package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Order    OrderConfig
	Store    StoreConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	JWTSecret     string // HS256 secret shared with the identity service
	SessionCookie string // Name of the session cookie carrying the JWT
}

type OrderConfig struct {
	MaxItemQty     int  // Upper bound on a single line's quantity
	RequireAddress bool // Reject orders with an empty delivery address
}

type StoreConfig struct {
	// Collection file paths. When set, the store seeds from the file at
	// startup and rewrites it wholesale after each mutation. Empty
	// disables persistence for that collection.
	ProductsFile string
	CouponsFile  string
	OrdersFile   string
}

// Load reads configuration from environment variables, after merging in
// a .env file if one is present
func Load() (*Config, error) {
	// Missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			SessionCookie: getEnv("SESSION_COOKIE", "session"),
		},
		Order: OrderConfig{
			MaxItemQty:     getEnvAsInt("ORDER_MAX_ITEM_QTY", 999),
			RequireAddress: getEnvAsBool("ORDER_REQUIRE_ADDRESS", false),
		},
		Store: StoreConfig{
			ProductsFile: getEnv("PRODUCTS_FILE", ""),
			CouponsFile:  getEnv("COUPONS_FILE", ""),
			OrdersFile:   getEnv("ORDERS_FILE", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}

	if c.Order.MaxItemQty < 1 {
		return fmt.Errorf("ORDER_MAX_ITEM_QTY must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
