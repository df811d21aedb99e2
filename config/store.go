package config

import (
	"fmt"
	"strings"
)

// StoreBackend selects where browser credentials are kept.
type StoreBackend string

const (
	// StoreBackendRedis keeps credentials in Redis so they survive restarts
	// and are shared between replicas.
	StoreBackendRedis StoreBackend = "redis"
	// StoreBackendMemory keeps credentials in process memory (development only).
	StoreBackendMemory StoreBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: redis, memory)", v)
	}
}

// StoreConfig configures the credential store.
type StoreConfig struct {
	Backend StoreBackend `env:"BACKEND" envDefault:"redis"`
	// KeyPrefix namespaces credential keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"console:"`
	// EncryptionKey seals tokens and profiles at rest. A 64-character hex
	// string is used as-is; anything else is hashed. Empty stores plaintext.
	EncryptionKey string `env:"ENCRYPTION_KEY"`
}

// Sanitize fills in defaults for a zero-value StoreConfig.
func (s *StoreConfig) Sanitize() {
	if s.Backend == "" {
		s.Backend = StoreBackendRedis
	}
	s.KeyPrefix = strings.TrimSpace(s.KeyPrefix)
	s.EncryptionKey = strings.TrimSpace(s.EncryptionKey)
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
