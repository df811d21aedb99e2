package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// AppConfig is the console's configuration, composed from the per-concern
// structs in this package.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual files for the variables:
//   - http.go: HTTP server and cookies
//   - api.go: ticketing backend
//   - store.go: credential storage and Redis
//   - observability.go: logging and StatsD
type AppConfig struct {
	// IsDev serves templates and static files from disk.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	HTTP  HTTPConfig
	API   APIConfig   `envPrefix:"API_"`
	Store StoreConfig `envPrefix:"STORE_"`
	Redis RedisConfig `envPrefix:"REDIS_"`

	// CredentialsTTL bounds how long a browser's token and profile are kept.
	CredentialsTTL time.Duration `env:"CREDENTIALS_TTL" envDefault:"168h"`

	StatsD StatsDConfig `envPrefix:"STATSD_"`
	Log    LogConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.API.Sanitize()
	c.Store.Sanitize()
	c.StatsD.Sanitize()
	c.Log.Sanitize()

	if c.CredentialsTTL <= 0 {
		c.CredentialsTTL = 7 * 24 * time.Hour
	}

	c.detectDevMode()
}

// Validate reports settings the console cannot start with.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.HTTP.Validate(),
		c.API.Validate(),
	)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
