package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Backend identifiers accepted by Config.StoreBackend.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config holds tracker configuration.
type Config struct {
	ProductURL     string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	StoreBackend   string // csv or sqlite
	StorePath      string
	PushGateway    string // empty disables metrics push
	Verbose        bool
}

// DefaultConfig returns the defaults for the demo product.
func DefaultConfig() *Config {
	return &Config{
		ProductURL:     "https://www.amazon.in/Sony-WH-1000XM5-Cancelling-Headphones-Connectivity/dp/B09XS7JWHH",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		Timeout:        15 * time.Second,
		StoreBackend:   BackendCSV,
		StorePath:      "price_history.csv",
		PushGateway:    "",
		Verbose:        false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ProductURL == "" {
		return fmt.Errorf("product URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.ProductURL)
	if err != nil {
		return fmt.Errorf("invalid product URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("product URL must include a host")
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.StoreBackend != BackendCSV && c.StoreBackend != BackendSQLite {
		return fmt.Errorf("store backend must be %s or %s", BackendCSV, BackendSQLite)
	}
	if c.StorePath == "" {
		return fmt.Errorf("store path cannot be empty")
	}

	return nil
}

// EnvString reads a string override from the environment.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer override from the environment.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
