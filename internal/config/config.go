package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIHost      string
	StripeAPIURL string
	StripeKey    string
	HTTPTimeout  time.Duration
	CategoryID   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutSec, err := strconv.Atoi(getEnv("HTTP_TIMEOUT", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	categoryID, err := strconv.Atoi(getEnv("CATEGORY_ID", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATEGORY_ID: %w", err)
	}

	cfg := &Config{
		APIHost:      getEnv("API_HOST", "http://localhost:8080"),
		StripeAPIURL: getEnv("STRIPE_API_URL", "https://api.stripe.com"),
		StripeKey:    getEnv("STRIPE_KEY", ""),
		HTTPTimeout:  time.Duration(timeoutSec) * time.Second,
		CategoryID:   categoryID,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIHost == "" {
		return fmt.Errorf("API_HOST is required")
	}
	if c.StripeAPIURL == "" {
		return fmt.Errorf("STRIPE_API_URL is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
