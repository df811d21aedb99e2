package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ticketdesk/admin-console/internal/adapters/memory"
	"github.com/ticketdesk/admin-console/internal/apiclient"
	"github.com/ticketdesk/admin-console/internal/credstore"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/ports"
	"github.com/ticketdesk/admin-console/internal/service"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the
// test if the templates are not reachable from the package directory.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	require.NoError(t, err)
	return tr
}

const (
	backendToken    = "t1"
	backendPassword = "secret123"
)

// fakeBackend is an in-memory stand-in for the ticketing REST backend.
type fakeBackend struct {
	mu      sync.Mutex
	users   map[int]domainauth.User
	nextID  int
	token   string
	meCalls int
	// usersStatus, when set, is returned by every /users call.
	usersStatus int
}

func newFakeBackend() *fakeBackend {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	admin := domainauth.User{
		ID: 1, Firstname: "Ana", Lastname: "Pérez", Email: "ana@b.com",
		Status: true, IsMailable: true, IsNotifiable: true, Annex: "201",
		Positions: []domainauth.Position{{
			ID:         1,
			Role:       domainauth.Role{ID: 1, Name: "admin"},
			Department: domainauth.Department{ID: 1, Name: "Soporte"},
		}},
		CreatedDate: &created,
	}
	return &fakeBackend{
		users: map[int]domainauth.User{
			1: admin,
			2: {ID: 2, Firstname: "Luis", Lastname: "Soto", Email: "lsoto@b.com", CreatedDate: &created},
		},
		nextID: 3,
		token:  backendToken,
	}
}

// revoke makes the backend reject the current token.
func (b *fakeBackend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = "revoked"
}

func (b *fakeBackend) user(id int) (domainauth.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[id]
	return u, ok
}

func (b *fakeBackend) MeCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meCalls
}

func writeBackendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var req domainauth.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, _ := b.user(1)
		if req.Email != u.Email || req.Password != backendPassword {
			writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeBackendJSON(w, http.StatusOK, map[string]any{
			"message": "ok",
			"payload": map[string]any{"token": backendToken, "user": u},
		})
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.meCalls++
		b.mu.Unlock()
		if !b.authorized(r) {
			writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		u, _ := b.user(1)
		writeBackendJSON(w, http.StatusOK, map[string]any{"payload": map[string]any{"user": u}})
	})

	users := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !b.authorized(r) {
				writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
				return
			}
			b.mu.Lock()
			forced := b.usersStatus
			b.mu.Unlock()
			if forced != 0 {
				writeBackendJSON(w, forced, map[string]string{"message": "forced failure"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /users", users(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		list := make([]domainauth.User, 0, len(b.users))
		for _, u := range b.users {
			list = append(list, u)
		}
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusOK, map[string]any{"payload": list})
	}))

	mux.HandleFunc("GET /users/{id}", users(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		u, ok := b.user(id)
		if !ok {
			writeBackendJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		writeBackendJSON(w, http.StatusOK, map[string]any{"payload": u})
	}))

	mux.HandleFunc("POST /users", users(func(w http.ResponseWriter, r *http.Request) {
		var in domainauth.UserInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		for _, u := range b.users {
			if u.Email == in.Email {
				b.mu.Unlock()
				writeBackendJSON(w, http.StatusConflict, map[string]string{"message": "email already registered"})
				return
			}
		}
		u := domainauth.User{
			ID: b.nextID, Firstname: in.Firstname, Lastname: in.Lastname, Email: in.Email,
			Status: in.Status, IsMailable: in.IsMailable, IsNotifiable: in.IsNotifiable, Annex: in.Annex,
		}
		b.users[u.ID] = u
		b.nextID++
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusCreated, map[string]any{"payload": u})
	}))

	mux.HandleFunc("PATCH /users/{id}", users(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		var in domainauth.UserInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		u, ok := b.users[id]
		if ok {
			u.Firstname, u.Lastname, u.Email, u.Annex = in.Firstname, in.Lastname, in.Email, in.Annex
			u.Status, u.IsMailable, u.IsNotifiable = in.Status, in.IsMailable, in.IsNotifiable
			b.users[id] = u
		}
		b.mu.Unlock()
		if !ok {
			writeBackendJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		writeBackendJSON(w, http.StatusOK, map[string]any{"payload": u})
	}))

	mux.HandleFunc("DELETE /users/{id}", users(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		b.mu.Lock()
		_, ok := b.users[id]
		delete(b.users, id)
		b.mu.Unlock()
		if !ok {
			writeBackendJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
			return
		}
		writeBackendJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	}))

	return mux
}

// consoleHarness runs the full console against a fake backend.
type consoleHarness struct {
	t       *testing.T
	backend *fakeBackend
	kv      *memory.KVStore
	server  *httptest.Server
	client  *http.Client
}

func newConsoleHarness(t *testing.T) *consoleHarness {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}

	backend := newFakeBackend()
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	api, err := apiclient.New(apiclient.Config{BaseURL: backendSrv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	kv := memory.NewKVStore()
	store := credstore.New(credstore.Options{KV: kv, TTL: time.Hour})
	authSvc := service.NewAuthService(service.AuthServiceOptions{API: apiclient.NewAuthEndpoint(api)})

	handler := NewRouter(RouterServices{
		Guard:          service.NewGuard(service.GuardOptions{Sessions: authSvc}),
		Auth:           authSvc,
		Users:          service.NewUserService(service.UserServiceOptions{API: apiclient.NewUsersEndpoint(api)}),
		Bind:           func(id string) ports.CredentialStore { return store.Bind(id) },
		CredentialsTTL: time.Hour,
		TemplateFS:     os.DirFS(TemplatePathFromTest),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &consoleHarness{t: t, backend: backend, kv: kv, server: srv, client: client}
}

func (h *consoleHarness) do(req *http.Request) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, err = sb.ReadFrom(resp.Body)
	require.NoError(h.t, err)
	return resp, sb.String()
}

func (h *consoleHarness) get(path string, headers ...string) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	req.Header.Set("Accept", "text/html")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return h.do(req)
}

// post submits a form, adding the CSRF token from the cookie jar.
func (h *consoleHarness) post(path string, form url.Values, headers ...string) (*http.Response, string) {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", h.csrfToken())
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return h.do(req)
}

// csrfToken returns the form token, visiting the login page first to obtain one.
func (h *consoleHarness) csrfToken() string {
	h.t.Helper()
	if tok := h.cookie(DefaultCSRFCookieName); tok != "" {
		return tok
	}
	h.get("/auth/login")
	tok := h.cookie(DefaultCSRFCookieName)
	require.NotEmpty(h.t, tok, "login page should issue a CSRF cookie")
	return tok
}

func (h *consoleHarness) cookie(name string) string {
	u, _ := url.Parse(h.server.URL)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login signs in as the fake backend's admin and checks the redirect.
func (h *consoleHarness) login() {
	h.t.Helper()
	resp, _ := h.post("/auth/login", url.Values{"email": {"ana@b.com"}, "password": {backendPassword}})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, service.LandingPath, resp.Header.Get("Location"))
}

// parseHTML parses body and fails the test on malformed markup.
func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// findAll returns every element for which match is true, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// byAttr matches elements of tag whose attribute key equals val.
func byAttr(tag, key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Data == tag && attr(n, key) == val
	}
}

// textContent concatenates the text below n with whitespace collapsed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
