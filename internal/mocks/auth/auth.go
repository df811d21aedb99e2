package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI         = (*FakeAuthAPI)(nil)
	_ ports.CredentialStore = (*MemoryCredentials)(nil)
)

// DefaultUser returns the deterministic user handed out by FakeAuthAPI.
func DefaultUser() domainauth.User {
	return domainauth.User{
		ID:           1,
		Firstname:    "Mock",
		Lastname:     "User",
		Email:        "a@b.com",
		Status:       true,
		IsMailable:   true,
		IsNotifiable: true,
		Positions: []domainauth.Position{{
			ID:         1,
			Role:       domainauth.Role{ID: 1, Name: "admin"},
			Department: domainauth.Department{ID: 1, Name: "Soporte"},
		}},
	}
}

// FakeAuthAPI simulates the backend auth endpoints and counts calls.
type FakeAuthAPI struct {
	SignInFunc func(ctx context.Context, req domainauth.LoginRequest) (*domainauth.LoginResponse, error)
	MeFunc     func(ctx context.Context) (*domainauth.User, error)

	// Token is issued by the default SignIn.
	Token string
	User  domainauth.User

	mu          sync.Mutex
	signInCalls int
	meCalls     int
}

// NewFakeAuthAPI creates a FakeAuthAPI issuing token "t1" for DefaultUser.
func NewFakeAuthAPI() *FakeAuthAPI {
	return &FakeAuthAPI{Token: "t1", User: DefaultUser()}
}

func (f *FakeAuthAPI) SignIn(ctx context.Context, req domainauth.LoginRequest) (*domainauth.LoginResponse, error) {
	f.mu.Lock()
	f.signInCalls++
	f.mu.Unlock()

	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, req)
	}
	user := f.User
	return &domainauth.LoginResponse{
		Message: "ok",
		Payload: domainauth.LoginPayload{Token: f.Token, User: &user},
	}, nil
}

func (f *FakeAuthAPI) Me(ctx context.Context) (*domainauth.User, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()

	if f.MeFunc != nil {
		return f.MeFunc(ctx)
	}
	user := f.User
	return &user, nil
}

// SignInCalls reports how many times SignIn ran.
func (f *FakeAuthAPI) SignInCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls
}

// MeCalls reports how many times Me ran.
func (f *FakeAuthAPI) MeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls
}

// MemoryCredentials is an in-memory CredentialStore that counts clears.
// Like the real store it never returns a user without a token.
type MemoryCredentials struct {
	mu         sync.Mutex
	token      string
	user       *domainauth.User
	clearCalls int
}

// NewMemoryCredentials creates empty credentials.
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{}
}

// NewLoggedInCredentials creates credentials holding token and user.
func NewLoggedInCredentials(token string, user domainauth.User) *MemoryCredentials {
	return &MemoryCredentials{token: token, user: &user}
}

func (m *MemoryCredentials) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryCredentials) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryCredentials) SetUser(_ context.Context, user *domainauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user == nil {
		m.user = nil
		return nil
	}
	u := *user
	m.user = &u
	return nil
}

func (m *MemoryCredentials) User(_ context.Context) (*domainauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryCredentials) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	m.clearCalls++
	return nil
}

// ClearCalls reports how many times Clear ran.
func (m *MemoryCredentials) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}
