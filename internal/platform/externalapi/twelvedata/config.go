// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import "time"

// DefaultBaseURL is the public Twelve Data endpoint.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey  string        `yaml:"api_key"`  // API key for authentication
	BaseURL string        `yaml:"base_url"` // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout time.Duration `yaml:"timeout"`  // HTTP request timeout
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
}
