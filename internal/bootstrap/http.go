package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ticketdesk/admin-console/config"
	httpx "github.com/ticketdesk/admin-console/internal/http"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the console server without starting it.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	store := cfg.Services.Credentials
	handler := httpx.NewRouter(httpx.RouterServices{
		Guard: cfg.Services.Guard,
		Auth:  cfg.Services.Auth,
		Users: cfg.Services.Users,
		Bind: func(clientID string) ports.CredentialStore {
			return store.Bind(clientID)
		},
		Ready:            cfg.Services.Ready,
		CookieDomain:     appCfg.HTTP.CookieDomain,
		SecureCookies:    appCfg.HTTP.SecureCookies,
		CredentialsTTL:   appCfg.CredentialsTTL,
		CompressionLevel: appCfg.HTTP.CompressionLevel,
		StaticVersion:    appCfg.HTTP.StaticVersion,
		IsDev:            appCfg.IsDev,
		Logger:           logger,
	})

	return &http.Server{
		Addr:         appCfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  appCfg.HTTP.IdleTimeout,
	}
}

const defaultShutdownTimeout = 10 * time.Second

// ServeOptions configures Serve.
type ServeOptions struct {
	Server *http.Server
	// Listener is optional; the server address is used when nil.
	Listener        net.Listener
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Serve runs the server until ctx is cancelled or the server fails, then
// shuts it down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	server := opts.Server

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if opts.Listener != nil {
			logger.InfoContext(gctx, "starting HTTP server", "addr", opts.Listener.Addr().String())
			err = server.Serve(opts.Listener)
		} else {
			logger.InfoContext(gctx, "starting HTTP server", "addr", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return shutdownHTTPServer(server, opts.ShutdownTimeout, logger)
	})

	return g.Wait()
}

// shutdownHTTPServer gracefully shuts down the HTTP server.
func shutdownHTTPServer(server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	logger.Info("shutting down HTTP server")

	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
