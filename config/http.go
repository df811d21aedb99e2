package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for the identity and CSRF cookies.
	// Leave empty to use the request host.
	CookieDomain string `env:"HTTP_COOKIE_DOMAIN" envDefault:""`

	// SecureCookies marks cookies Secure even on plain HTTP, for TLS
	// terminated at a proxy that does not send X-Forwarded-Proto.
	SecureCookies bool `env:"HTTP_SECURE_COOKIES" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`

	// StaticVersion is appended to asset URLs to bust caches after a deploy.
	StaticVersion string `env:"HTTP_STATIC_VERSION" envDefault:""`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = ":8080"
	}

	// A leading dot is how older browsers spelled "and subdomains".
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")

	// Clamp compression level to valid gzip range (1-9)
	if h.CompressionLevel < 1 {
		h.CompressionLevel = 1
	}
	if h.CompressionLevel > 9 {
		h.CompressionLevel = 9
	}

	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30 * time.Second
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// Validate rejects a cookie domain browsers would refuse or share with
// unrelated sites.
func (h *HTTPConfig) Validate() error {
	return ValidateCookieDomain(h.CookieDomain)
}

// ValidateCookieDomain accepts an empty domain, "localhost", or a registrable
// domain or one of its subdomains. IP addresses and public suffixes such as
// "co.uk" or "github.io" are rejected.
func ValidateCookieDomain(domain string) error {
	if domain == "" || domain == "localhost" {
		return nil
	}
	if net.ParseIP(domain) != nil {
		return fmt.Errorf("cookie domain %q: IP addresses cannot scope cookies", domain)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return fmt.Errorf("cookie domain %q: %w", domain, err)
	}
	return nil
}
