// Package apiclient is the console's HTTP client for the ticketing backend.
// Requests carry the bearer token of the credentials in their context, and a
// 401 from any endpoint clears those credentials and redirects the current
// navigation to the login page.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ticketdesk/admin-console/internal/observability/statsd"
)

// DefaultTimeout bounds a single backend call when none is configured.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is retained.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
	Metrics   statsd.Sink
}

// Client issues JSON requests against the backend base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	plain  *http.Client
	logger *slog.Logger
	authed bool
}

// New creates a Client. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, errors.New("api base url must include a host")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "apiclient")

	intercepted := &unauthorizedTransport{
		base:    &bearerTransport{base: rt, logger: logger},
		logger:  logger,
		metrics: cfg.Metrics,
	}

	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout, Transport: intercepted},
		plain:  &http.Client{Timeout: timeout, Transport: rt},
		logger: logger,
		authed: true,
	}, nil
}

// Unauthenticated returns a client sharing the same base URL that neither
// sends bearer tokens nor reacts to 401 responses.
func (c *Client) Unauthenticated() *Client {
	cp := *c
	cp.authed = false
	return &cp
}

// Get issues a GET and decodes the response into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. Non-2xx responses return *StatusError; failures
// without a response return *TransportError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	hc := c.plain
	if c.authed {
		hc = c.http
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	c.logger.DebugContext(ctx, "backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			c.logger.DebugContext(ctx, "read error body failed", "error", readErr)
		}
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(raw),
			Body:       raw,
		}
	}

	return decodeBody(resp.Body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) resolve(path string) string {
	u := *c.base
	rel, err := url.Parse(path)
	if err != nil {
		rel = &url.URL{Path: path}
	}
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(rel.Path, "/")
	u.RawPath = ""
	u.RawQuery = rel.RawQuery
	return u.String()
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		_, err := io.Copy(io.Discard, r)
		return err
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
