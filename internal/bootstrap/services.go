package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ticketdesk/admin-console/config"
	"github.com/ticketdesk/admin-console/internal/adapters/memory"
	redisadapter "github.com/ticketdesk/admin-console/internal/adapters/redis"
	"github.com/ticketdesk/admin-console/internal/apiclient"
	"github.com/ticketdesk/admin-console/internal/credstore"
	"github.com/ticketdesk/admin-console/internal/cryptoutil"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
	"github.com/ticketdesk/admin-console/internal/ports"
	"github.com/ticketdesk/admin-console/internal/service"
)

// ServiceContainer holds the console's services.
type ServiceContainer struct {
	Credentials *credstore.Store
	API         *apiclient.Client
	Auth        *service.AuthService
	Guard       *service.Guard
	Users       *service.UserService
	// Ready pings the credential store backend. Nil for the memory store.
	Ready func(ctx context.Context) error
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// Redis backs the credential store when STORE_BACKEND=redis.
	Redis   redis.UniversalClient
	Metrics statsd.Sink
	// Transport overrides the backend round tripper. Tests use it.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewServices wires the credential store, API client and services.
func NewServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	kv, err := newKVStore(cfg.Store, deps.Redis, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	enc, err := newEncryptor(cfg.Store, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	api, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: deps.Transport,
		Logger:    logger,
		Metrics:   deps.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create api client: %w", err)
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		API:     apiclient.NewAuthEndpoint(api),
		Logger:  logger,
		Metrics: deps.Metrics,
	})

	var ready func(ctx context.Context) error
	if deps.Redis != nil && cfg.Store.Backend != config.StoreBackendMemory {
		client := deps.Redis
		ready = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	return ServiceContainer{
		Credentials: credstore.New(credstore.Options{
			KV:        kv,
			TTL:       cfg.CredentialsTTL,
			Encryptor: enc,
			Logger:    logger,
		}),
		API:         api,
		Auth:        auth,
		Guard:       service.NewGuard(service.GuardOptions{Sessions: auth, Logger: logger, Metrics: deps.Metrics}),
		Users:       service.NewUserService(service.UserServiceOptions{API: apiclient.NewUsersEndpoint(api), Logger: logger}),
		Ready:       ready,
	}, nil
}

//nolint:ireturn // the backend is chosen by configuration.
func newKVStore(cfg config.StoreConfig, client redis.UniversalClient, logger *slog.Logger) (ports.KVStore, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory:
		logger.Warn("credentials are kept in process memory; sessions end on restart")
		return memory.NewKVStore(), nil
	case config.StoreBackendRedis, "":
		if client == nil {
			return nil, errors.New("redis store selected but no redis client is connected")
		}
		prefix := cfg.KeyPrefix
		if prefix == "" {
			prefix = redisadapter.DefaultPrefix
		}
		return redisadapter.NewKVStoreWithPrefix(client, prefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// newEncryptor returns nil when no key is configured, which stores
// credentials in the clear.
//
//nolint:ireturn // nil disables sealing.
func newEncryptor(cfg config.StoreConfig, logger *slog.Logger) (cryptoutil.Encryptor, error) {
	if cfg.EncryptionKey == "" {
		if cfg.Backend != config.StoreBackendMemory {
			logger.Warn("STORE_ENCRYPTION_KEY is empty; bearer tokens are stored in plaintext")
		}
		return nil, nil
	}
	enc, err := cryptoutil.NewEncryptorFromKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("create credential encryptor: %w", err)
	}
	return enc, nil
}

// NewMetrics dials StatsD when enabled. A dial failure is logged and metrics
// are disabled rather than failing startup.
func NewMetrics(cfg config.StatsDConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Address,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
