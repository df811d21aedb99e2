package service

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/navigation"
	"github.com/ticketdesk/admin-console/internal/observability/metrics"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// OutcomeKind tags a guard Outcome.
type OutcomeKind int

const (
	// OutcomeContinue lets the navigation render.
	OutcomeContinue OutcomeKind = iota
	// OutcomeRedirect short-circuits the navigation to Target.
	OutcomeRedirect
)

// Outcome is the result of a guard evaluation. Redirect outcomes carry a
// Target; continue outcomes carry the resolved User, which is nil on public
// routes visited anonymously.
type Outcome struct {
	Kind   OutcomeKind
	Target string
	User   *domainauth.User
}

// Continue builds a continue outcome.
func Continue(user *domainauth.User) Outcome {
	return Outcome{Kind: OutcomeContinue, User: user}
}

// Redirect builds a redirect outcome.
func Redirect(target string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Target: target}
}

// IsRedirect reports whether the outcome short-circuits the navigation.
func (o Outcome) IsRedirect() bool { return o.Kind == OutcomeRedirect }

// SessionVerifier is the part of AuthService the guard depends on.
type SessionVerifier interface {
	VerifySession(ctx context.Context, creds ports.CredentialStore) (*domainauth.User, error)
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Sessions SessionVerifier
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// Guard decides whether a navigation may render. It never returns errors:
// any failure while resolving the user means "not authenticated".
type Guard struct {
	sessions SessionVerifier
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewGuard constructs a Guard.
func NewGuard(opts GuardOptions) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		sessions: opts.Sessions,
		logger:   logger.With("component", "guard"),
		metrics:  opts.Metrics,
	}
}

// Protected admits navigations with a resolved user and redirects everyone
// else to the login page, carrying requestURI as the return target.
func (g *Guard) Protected(
	ctx context.Context,
	nav *navigation.Context,
	creds ports.CredentialStore,
	requestURI string,
) Outcome {
	if user, _ := nav.User(); user != nil {
		return Continue(user)
	}

	user := g.resolve(ctx, creds)
	if user == nil {
		g.emit("protected", metrics.ResultRedirect)
		return Redirect(LoginURL(requestURI))
	}

	nav.SetUser(user)
	g.emit("protected", metrics.ResultContinue)
	return Continue(user)
}

// Public sends signed-in users away from public pages (login) to
// redirectParam when it is a safe local path, else to LandingPath.
// Anonymous navigations continue with a nil user.
func (g *Guard) Public(
	ctx context.Context,
	nav *navigation.Context,
	creds ports.CredentialStore,
	redirectParam string,
) Outcome {
	user, _ := nav.User()
	if user == nil {
		user = g.resolve(ctx, creds)
	}

	if user != nil {
		nav.SetUser(user)
		g.emit("public", metrics.ResultRedirect)
		return Redirect(SafeRedirectPath(redirectParam, LandingPath))
	}

	nav.SetUser(nil)
	g.emit("public", metrics.ResultContinue)
	return Continue(nil)
}

// resolve returns the cached user, or verifies the session when only a token
// is stored. The cached user is trusted without contacting the backend; a
// revoked token is noticed on the next backend call that returns 401.
// On any failure the credentials are cleared and nil is returned, unless
// ctx itself was cancelled.
func (g *Guard) resolve(ctx context.Context, creds ports.CredentialStore) *domainauth.User {
	user, err := g.lookup(ctx, creds)
	if err == nil && user != nil {
		return user
	}

	if err != nil {
		g.logger.InfoContext(ctx, "session resolution failed", "error", err)
	}
	// An abandoned navigation learned nothing about the session.
	if ctx.Err() != nil {
		return nil
	}
	if clearErr := creds.Clear(ctx); clearErr != nil {
		g.logger.ErrorContext(ctx, "clear credentials after failed resolution", "error", clearErr)
	}
	return nil
}

func (g *Guard) lookup(ctx context.Context, creds ports.CredentialStore) (*domainauth.User, error) {
	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	cached, err := creds.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached user: %w", err)
	}
	if cached != nil {
		return cached, nil
	}

	return g.sessions.VerifySession(ctx, creds)
}

func (g *Guard) emit(guard, result string) {
	metrics.EmitAuthEvent(g.metrics, metrics.AuthMetric{
		Event:  metrics.EventGuard,
		Guard:  guard,
		Result: result,
	})
}
