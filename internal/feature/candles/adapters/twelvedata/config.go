// Package twelvedata provides a client for the Twelve Data market data API.
package twelvedata

import (
	"os"
	"time"
)

// Config holds the settings for the Twelve Data API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // API base URL (e.g. "https://api.twelvedata.com")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig reads the Twelve Data settings from environment variables.
func LoadConfig() Config {
	baseURL := os.Getenv("TWELVE_DATA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}
	return Config{
		APIKey:  os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}
