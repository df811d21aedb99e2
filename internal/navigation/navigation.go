// Package navigation holds state scoped to a single browser navigation: the
// resolved user and any redirect requested while serving it. A Context lives
// for one request and is never persisted.
package navigation

import (
	"context"
	"sync"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
)

// Context is the per-navigation auth context. It is safe for concurrent use
// by goroutines serving the same request.
type Context struct {
	mu       sync.Mutex
	user     *domainauth.User
	resolved bool
	redirect string
}

// New returns an unresolved navigation context.
func New() *Context {
	return &Context{}
}

// User returns the resolved user and whether resolution has happened.
// A resolved context may still hold a nil user (anonymous navigation).
func (c *Context) User() (*domainauth.User, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user, c.resolved
}

// SetUser records the resolution result. Once a non-nil user is recorded it
// is kept for the rest of the navigation and SetUser reports false.
func (c *Context) SetUser(user *domainauth.User) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil {
		return false
	}
	c.user = user
	c.resolved = true
	return true
}

// Redirect asks the routing layer to replace the response with a redirect to
// target. The first request wins.
func (c *Context) Redirect(target string) {
	if c == nil || target == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.redirect == "" {
		c.redirect = target
	}
}

// PendingRedirect returns the requested redirect target, if any.
func (c *Context) PendingRedirect() (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect, c.redirect != ""
}

type contextKey struct{}

// NewContext returns ctx carrying nav.
func NewContext(ctx context.Context, nav *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, nav)
}

// FromContext returns the navigation context carried by ctx, or nil.
// All Context methods accept a nil receiver.
func FromContext(ctx context.Context) *Context {
	nav, _ := ctx.Value(contextKey{}).(*Context)
	return nav
}
