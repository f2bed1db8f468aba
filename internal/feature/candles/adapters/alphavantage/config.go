// Package alphavantage provides a client for the Alpha Vantage market data
// API, used as the fallback data source.
package alphavantage

import (
	"os"
	"time"
)

// Config holds the settings for the Alpha Vantage API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // API base URL (e.g. "https://www.alphavantage.co")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig reads the Alpha Vantage settings from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}
