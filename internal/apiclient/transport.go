package apiclient

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ticketdesk/admin-console/internal/credstore"
	"github.com/ticketdesk/admin-console/internal/navigation"
	"github.com/ticketdesk/admin-console/internal/observability/metrics"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
)

// LoginPath is where the browser is sent after a 401.
const LoginPath = "/auth/login"

// bearerTransport attaches the bearer token of the credentials carried by the
// request context. Requests without credentials or without a stored token go
// out unauthenticated.
type bearerTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	creds, ok := credstore.FromContext(ctx)
	if !ok {
		return t.base.RoundTrip(req)
	}

	tok, err := creds.Token(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "token lookup failed; sending request unauthenticated", "error", err)
		return t.base.RoundTrip(req)
	}
	if tok == "" {
		return t.base.RoundTrip(req)
	}

	authed := req.Clone(ctx)
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}

// unauthorizedTransport reacts to any 401: it clears the credentials of the
// request and asks the navigation to go to the login page. The response is
// passed through so the caller still sees the failure.
type unauthorizedTransport struct {
	base    http.RoundTripper
	logger  *slog.Logger
	metrics statsd.Sink
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	ctx := req.Context()
	if creds, ok := credstore.FromContext(ctx); ok {
		if clearErr := creds.Clear(ctx); clearErr != nil {
			t.logger.ErrorContext(ctx, "failed to clear credentials after 401", "error", clearErr)
		}
	}
	navigation.FromContext(ctx).Redirect(LoginPath)
	metrics.EmitAuthEvent(t.metrics, metrics.AuthMetric{
		Event:  metrics.EventUnauthorized,
		Result: metrics.ResultCleared,
	})
	t.logger.InfoContext(ctx, "backend rejected credentials", "path", req.URL.Path)

	return resp, nil
}
