package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ticketdesk/admin-console/internal/credstore"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/observability/metrics"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API     ports.AuthAPI
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// AuthService performs login, logout and session verification against the
// backend and keeps the browser's credentials in sync with the results.
type AuthService struct {
	api     ports.AuthAPI
	logger  *slog.Logger
	metrics statsd.Sink
	verify  singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:     opts.API,
		logger:  logger.With("component", "auth_service"),
		metrics: opts.Metrics,
	}
}

// Login signs in with email and password. On success the token and user
// from the response are stored in creds and the full response is returned.
// On failure nothing is stored and the error is an *auth.Error.
func (s *AuthService) Login(
	ctx context.Context,
	creds ports.CredentialStore,
	email, password string,
) (*domainauth.LoginResponse, error) {
	start := time.Now()
	resp, err := s.api.SignIn(ctx, domainauth.LoginRequest{Email: email, Password: password})
	if err != nil {
		mapped := MapError(err)
		s.emit(metrics.EventLogin, metrics.ResultError, time.Since(start), mapped)
		return nil, mapped
	}

	if err := s.persistLogin(ctx, creds, resp.Payload); err != nil {
		mapped := MapError(err)
		s.emit(metrics.EventLogin, metrics.ResultError, time.Since(start), mapped)
		return nil, mapped
	}

	s.emit(metrics.EventLogin, metrics.ResultSuccess, time.Since(start), nil)
	return resp, nil
}

// persistLogin stores the login payload, rolling back on partial failure.
func (s *AuthService) persistLogin(ctx context.Context, creds ports.CredentialStore, p domainauth.LoginPayload) error {
	if p.Token != "" {
		if err := creds.SetToken(ctx, p.Token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
	}
	if p.User != nil {
		if err := creds.SetUser(ctx, p.User); err != nil {
			if clearErr := creds.Clear(ctx); clearErr != nil {
				s.logger.ErrorContext(ctx, "rollback after failed login persist", "error", clearErr)
			}
			return fmt.Errorf("store user: %w", err)
		}
	}
	return nil
}

// VerifySession confirms the stored token with the backend and refreshes the
// cached user. Without a token it fails with UNAUTHORIZED and makes no call.
// It never clears credentials itself; a 401 is handled by the API client.
func (s *AuthService) VerifySession(ctx context.Context, creds ports.CredentialStore) (*domainauth.User, error) {
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, MapError(fmt.Errorf("load token: %w", err))
	}
	if token == "" {
		return nil, domainauth.NewError(domainauth.CodeUnauthorized, "No hay token disponible")
	}

	start := time.Now()
	// The shared call outlives any one caller; the client timeout bounds it.
	shared := context.WithoutCancel(credstore.WithCredentials(ctx, creds))
	ch := s.verify.DoChan(token, func() (any, error) {
		return s.api.Me(shared)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, MapError(ctx.Err())
	}
	if res.Err != nil {
		mapped := MapError(res.Err)
		s.emit(metrics.EventVerify, metrics.ResultError, time.Since(start), mapped)
		return nil, mapped
	}

	user, _ := res.Val.(*domainauth.User)
	if user == nil {
		return nil, MapError(errors.New("session verification returned no user"))
	}
	// Callers sharing one verification must not alias the same value.
	cp := *user
	if err := creds.SetUser(ctx, &cp); err != nil {
		return nil, MapError(fmt.Errorf("store user: %w", err))
	}
	s.emit(metrics.EventVerify, metrics.ResultSuccess, time.Since(start), nil)
	return &cp, nil
}

// Logout clears creds. It is local only and always succeeds; a storage
// failure is logged.
func (s *AuthService) Logout(ctx context.Context, creds ports.CredentialStore) {
	if err := creds.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "clear credentials on logout", "error", err)
		s.emit(metrics.EventLogout, metrics.ResultError, 0, err)
		return
	}
	s.emit(metrics.EventLogout, metrics.ResultSuccess, 0, nil)
}

// CurrentUser returns the cached user without contacting the backend.
func (s *AuthService) CurrentUser(ctx context.Context, creds ports.CredentialStore) *domainauth.User {
	user, err := creds.User(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "read cached user", "error", err)
		return nil
	}
	return user
}

// IsAuthenticated reports whether both a token and a cached user are present.
// It says nothing about whether the backend still accepts the token.
func (s *AuthService) IsAuthenticated(ctx context.Context, creds ports.CredentialStore) bool {
	token, err := creds.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	return s.CurrentUser(ctx, creds) != nil
}

func (s *AuthService) emit(event, result string, d time.Duration, err error) {
	metrics.EmitAuthEvent(s.metrics, metrics.AuthMetric{
		Event:    event,
		Result:   result,
		Duration: d,
		Err:      err,
	})
}
