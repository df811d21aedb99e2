package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticketdesk/admin-console/internal/credstore"
	"github.com/ticketdesk/admin-console/internal/navigation"
	"github.com/ticketdesk/admin-console/internal/ports"
	"github.com/ticketdesk/admin-console/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultClientCookieName names the cookie that identifies a browser. The
// cookie holds only a random ID; the token itself stays server side.
const DefaultClientCookieName = "console_client"

// CredentialBinder returns the credential store scoped to one browser.
type CredentialBinder func(clientID string) ports.CredentialStore

// IdentityConfig configures ClientIdentity.
type IdentityConfig struct {
	Bind         CredentialBinder
	CookieName   string
	CookieDomain string
	// MaxAge of the identity cookie. Zero makes it a session cookie.
	MaxAge time.Duration
	// Secure forces the Secure attribute on plain HTTP requests.
	Secure bool
}

// ClientIdentity assigns every browser a stable random ID and places its
// credential store and a fresh navigation context in the request context.
func ClientIdentity(cfg IdentityConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultClientCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := clientIDFromRequest(r, cfg.CookieName)
			if clientID == "" {
				clientID = uuid.NewString()
				setClientCookie(w, r, cfg, clientID)
			}

			ctx := navigation.NewContext(r.Context(), navigation.New())
			if cfg.Bind != nil {
				ctx = credstore.WithCredentials(ctx, cfg.Bind(clientID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIDFromRequest returns the identity cookie value when it is a valid UUID.
func clientIDFromRequest(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func setClientCookie(w http.ResponseWriter, r *http.Request, cfg IdentityConfig, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    clientID,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: true,
		Secure:   cfg.Secure || r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.MaxAge.Seconds()),
	})
}

// ApplyNavigation buffers the response and replaces it with a redirect when
// something during the request asked for one, such as the API client seeing
// a 401. Cookies set by the handler are kept.
func ApplyNavigation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nav := navigation.FromContext(r.Context())
			if nav == nil {
				next.ServeHTTP(w, r)
				return
			}

			cw := newCaptureWriter(w)
			next.ServeHTTP(cw, r)

			target, ok := nav.PendingRedirect()
			if !ok {
				cw.flushTo(w)
				return
			}
			for _, c := range cw.header.Values("Set-Cookie") {
				w.Header().Add("Set-Cookie", c)
			}
			redirectTo(w, r, target)
		})
	}
}

// RouteGuard decides whether a navigation may proceed.
type RouteGuard interface {
	Protected(ctx context.Context, nav *navigation.Context, creds ports.CredentialStore, requestURI string) service.Outcome
	Public(ctx context.Context, nav *navigation.Context, creds ports.CredentialStore, redirectParam string) service.Outcome
}

var _ RouteGuard = (*service.Guard)(nil)

// RequireSession lets a request through only when the browser has a
// resolvable user. Everyone else is sent to the login page with the current
// location as the return target.
func RequireSession(guard RouteGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, ok := credstore.FromContext(r.Context())
			if !ok {
				redirectTo(w, r, service.LoginURL(redirectPathForRequest(r)))
				return
			}

			outcome := guard.Protected(r.Context(), navigation.FromContext(r.Context()), creds, redirectPathForRequest(r))
			if outcome.IsRedirect() {
				redirectTo(w, r, outcome.Target)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PublicOnly keeps signed-in users away from pages meant for anonymous
// visitors, sending them to the "redirect" query parameter or the landing page.
func PublicOnly(guard RouteGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds, ok := credstore.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			outcome := guard.Public(r.Context(), navigation.FromContext(r.Context()), creds, r.URL.Query().Get("redirect"))
			if outcome.IsRedirect() {
				redirectTo(w, r, outcome.Target)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectTo navigates the browser to target. htmx requests get HX-Redirect
// so the whole page changes instead of a fragment swap.
func redirectTo(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// redirectPathForRequest returns the local location the user was looking at.
// For htmx requests that is the page, not the fragment endpoint.
func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}

	return service.SafeRedirectPath(r.URL.RequestURI(), "")
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// Absolute URLs keep only their path and query.
	if u.IsAbs() {
		return service.SafeRedirectPath(u.RequestURI(), "")
	}

	return service.SafeRedirectPath(raw, "")
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection marks whether the request came from a browser so handlers
// can choose between HTML and JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats htmx requests and anything accepting text/html as a
// browser. Static assets and explicit JSON callers are not.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}
