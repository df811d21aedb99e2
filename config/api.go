package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// APIConfig locates the ticketing backend.
type APIConfig struct {
	// BaseURL is prefixed to every backend path, e.g. "https://tickets.example.com/api".
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`
}

// Sanitize trims the base URL and restores a usable timeout.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
}

// Validate requires an absolute http(s) base URL.
func (a *APIConfig) Validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute http or https URL", a.BaseURL)
	}
	return nil
}
