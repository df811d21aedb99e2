package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	console "github.com/ticketdesk/admin-console"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Guard RouteGuard
	Auth  AuthSessions
	Users UsersService
	// Bind scopes the credential store to one browser.
	Bind CredentialBinder
	// Ready checks the credential store backend for /readyz.
	Ready ReadinessCheck

	CookieDomain  string
	SecureCookies bool
	// CredentialsTTL also bounds the identity cookie lifetime.
	CredentialsTTL time.Duration
	// CompressionLevel is the gzip level; zero uses the default.
	CompressionLevel int

	// TemplateFS overrides where templates are loaded from. Tests point it
	// at the source tree.
	TemplateFS    fs.FS
	StaticVersion string
	IsDev         bool // serve templates and static files from disk
	Logger        *slog.Logger
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter creates the console's handler: routes plus the middleware chain.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(liveness))
	mux.Handle("HEAD /healthz", http.HandlerFunc(liveness))
	mux.Handle("GET /readyz", readiness(services.Ready, services.logger()))
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, services.logger()))

	authHandlers := &AuthHandlers{Sessions: services.Auth, Logger: services.Logger}
	mux.Handle("GET /auth/status", http.HandlerFunc(authHandlers.Status))

	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, SecureCookie: services.SecureCookies})
	mux.Handle("POST /logout", csrf(http.HandlerFunc(authHandlers.Logout)))

	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, uiRouteConfig{Guard: services.Guard, CSRF: csrf})
	}

	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: uiHandlers}
	handler = ApplyNavigation()(handler)
	handler = ClientIdentity(IdentityConfig{
		Bind:         services.Bind,
		CookieDomain: services.CookieDomain,
		MaxAge:       services.CredentialsTTL,
		Secure:       services.SecureCookies,
	})(handler)
	handler = BrowserDetection()(handler)
	handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: services.Logger})(handler)
	handler = Logging(services.Logger)(handler)
	return Recover(services.Logger)(handler)
}

// templateFS picks the template source: an explicit override, the working
// tree in dev mode, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(console.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		services.logger().Error("failed to open embedded templates; falling back to disk", "error", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// setupUIHandlers creates UI handlers with the template renderer. It returns
// nil when templates fail to parse, leaving only the non-HTML routes.
func setupUIHandlers(services RouterServices) *UIHandlers {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    templateFS(services),
		StaticVersion: services.StaticVersion,
		Logger:        services.Logger,
	})
	if err != nil {
		services.logger().Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}

	return &UIHandlers{
		T:      tr,
		Auth:   services.Auth,
		Users:  services.Users,
		IsDev:  services.IsDev,
		Logger: services.Logger,
	}
}

// staticWithFallback serves /static/* from disk in dev mode and from the
// embedded copy otherwise.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), true)
	}

	staticSub, err := fs.Sub(console.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to open embedded static assets; falling back to disk", "error", err)
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))), true)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), false)
}

// staticWithCacheHeaders adds cache headers. Embedded assets are versioned
// with ?v= by the asset template func, so they may be cached for a day.
func staticWithCacheHeaders(handler http.Handler, noCache bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if noCache {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only unmatched routes get the custom page. Handlers that answer 404
	// themselves keep their response.
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)

	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	// 405s and other mux answers pass through unchanged.
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write captured response", "error", err)
	}
}

// uiRouteConfig holds the wrappers UI routes are registered with.
type uiRouteConfig struct {
	Guard RouteGuard
	CSRF  func(http.Handler) http.Handler
}

// protected requires a session and issues or checks the form token.
func (cfg uiRouteConfig) protected(h http.HandlerFunc) http.Handler {
	return RequireSession(cfg.Guard)(cfg.CSRF(h))
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /{$}", http.HandlerFunc(h.Index))

	// Login is public; signed-in users are sent on.
	publicOnly := PublicOnly(cfg.Guard)
	mux.Handle("GET /auth/login", publicOnly(cfg.CSRF(http.HandlerFunc(h.Login))))
	mux.Handle("POST /auth/login", cfg.CSRF(http.HandlerFunc(h.LoginSubmit)))

	mux.Handle("GET /dashboard", cfg.protected(h.Dashboard))
	mux.Handle("GET /dashboard/users", cfg.protected(h.Users))
	mux.Handle("GET /dashboard/users/create", cfg.protected(h.UserNew))
	mux.Handle("POST /dashboard/users/create", cfg.protected(h.UserCreate))
	mux.Handle("GET /dashboard/users/edit/{id}", cfg.protected(h.UserEdit))
	mux.Handle("POST /dashboard/users/edit/{id}", cfg.protected(h.UserUpdate))
	mux.Handle("POST /dashboard/users/{id}/delete", cfg.protected(h.UserDelete))
}
