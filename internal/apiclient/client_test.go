package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ticketdesk/admin-console/internal/credstore"
	"github.com/ticketdesk/admin-console/internal/mocks"
	mockauth "github.com/ticketdesk/admin-console/internal/mocks/auth"
	"github.com/ticketdesk/admin-console/internal/navigation"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *statsd.Recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := statsd.NewRecorder()
	c, err := New(Config{BaseURL: srv.URL + "/api", Metrics: rec})
	require.NoError(t, err)
	return c, rec
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"relative", "/api"},
		{"bad scheme", "ftp://backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.url})
			assert.Error(t, err)
		})
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		assert.Equal(t, "/api/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payload":[]}`))
	}))

	creds := mockauth.NewMemoryCredentials()
	require.NoError(t, creds.SetToken(context.Background(), "t1"))
	ctx := credstore.WithCredentials(context.Background(), creds)

	require.NoError(t, c.Get(ctx, "/users", nil))
	assert.Equal(t, "Bearer t1", gotAuth.Load())
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := credstore.WithCredentials(context.Background(), mockauth.NewMemoryCredentials())
	require.NoError(t, c.Delete(ctx, "/users/3", nil))
	assert.Equal(t, "", gotAuth.Load())

	require.NoError(t, c.Delete(context.Background(), "/users/3", nil))
}

func TestClient_401ClearsOnceAndRedirects(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token inválido"}`))
	}))

	ctrl := gomock.NewController(t)
	creds := mocks.NewMockCredentialStore(ctrl)
	creds.EXPECT().Token(gomock.Any()).Return("stale", nil)
	creds.EXPECT().Clear(gomock.Any()).Return(nil).Times(1)

	nav := navigation.New()
	ctx := navigation.NewContext(credstore.WithCredentials(context.Background(), creds), nav)

	err := c.Get(ctx, "/users", nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Token inválido", statusErr.Message)

	target, ok := nav.PendingRedirect()
	require.True(t, ok)
	assert.Equal(t, LoginPath, target)
	assert.Equal(t, int64(1), rec.CountOf("auth.unauthorized"))
}

func TestClient_401FromAnyVerb(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	for _, call := range []func(context.Context) error{
		func(ctx context.Context) error { return c.Get(ctx, "/x", nil) },
		func(ctx context.Context) error { return c.Post(ctx, "/x", map[string]string{}, nil) },
		func(ctx context.Context) error { return c.Put(ctx, "/x", map[string]string{}, nil) },
		func(ctx context.Context) error { return c.Patch(ctx, "/x", map[string]string{}, nil) },
		func(ctx context.Context) error { return c.Delete(ctx, "/x", nil) },
	} {
		creds := mockauth.NewLoggedInCredentials("t1", mockauth.DefaultUser())
		nav := navigation.New()
		ctx := navigation.NewContext(credstore.WithCredentials(context.Background(), creds), nav)

		err := call(ctx)
		require.Error(t, err)
		assert.Equal(t, 1, creds.ClearCalls())
		_, ok := nav.PendingRedirect()
		assert.True(t, ok)
	}
}

func TestClient_OtherErrorsPassThrough(t *testing.T) {
	c, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":["email must be an email","firstname should not be empty"]}`))
	}))

	creds := mockauth.NewLoggedInCredentials("t1", mockauth.DefaultUser())
	nav := navigation.New()
	ctx := navigation.NewContext(credstore.WithCredentials(context.Background(), creds), nav)

	err := c.Post(ctx, "/users", map[string]string{"email": "x"}, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "email must be an email; firstname should not be empty", statusErr.Message)
	assert.Equal(t, 0, creds.ClearCalls())
	_, ok := nav.PendingRedirect()
	assert.False(t, ok)
	assert.Zero(t, rec.CountOf("auth.unauthorized"))
}

func TestClient_UnauthenticatedIgnores401(t *testing.T) {
	var gotAuth atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))

	creds := mockauth.NewLoggedInCredentials("t1", mockauth.DefaultUser())
	nav := navigation.New()
	ctx := navigation.NewContext(credstore.WithCredentials(context.Background(), creds), nav)

	err := c.Unauthenticated().Post(ctx, "/auth/signin", map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, "", gotAuth.Load())
	assert.Equal(t, 0, creds.ClearCalls())
	_, ok := nav.PendingRedirect()
	assert.False(t, ok)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Get(context.Background(), "/auth/me", nil)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "/auth/me", transportErr.Path)
}

func TestClient_DecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))

	var out map[string]any
	err := c.Get(context.Background(), "/users", &out)
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_Resolve(t *testing.T) {
	c, err := New(Config{BaseURL: "https://backend.example.com/api/"})
	require.NoError(t, err)

	assert.Equal(t, "https://backend.example.com/api/users/3", c.resolve("/users/3"))
	assert.Equal(t, "https://backend.example.com/api/users?page=2", c.resolve("users?page=2"))
}
