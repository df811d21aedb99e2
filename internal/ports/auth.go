package ports

// Package ports defines interfaces (hexagonal ports) for console behavior.
// Implementations live in internal/adapters, internal/credstore and
// internal/apiclient; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
)

// CredentialStore persists one browser's bearer token and cached profile.
// Clear removes both entries in one operation.
type CredentialStore interface {
	SetToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	SetUser(ctx context.Context, user *domainauth.User) error
	User(ctx context.Context) (*domainauth.User, error)
	Clear(ctx context.Context) error
}

// AuthAPI is the backend's authentication surface.
type AuthAPI interface {
	// SignIn exchanges email and password for a token and user. It never sends
	// a bearer credential.
	SignIn(ctx context.Context, req domainauth.LoginRequest) (*domainauth.LoginResponse, error)

	// Me returns the user bound to the credentials carried by ctx.
	Me(ctx context.Context) (*domainauth.User, error)
}

// UsersAPI is the backend's user CRUD surface.
type UsersAPI interface {
	List(ctx context.Context) ([]domainauth.User, error)
	Get(ctx context.Context, id int) (*domainauth.User, error)
	Create(ctx context.Context, in domainauth.UserInput) (*domainauth.User, error)
	Update(ctx context.Context, id int, in domainauth.UserInput) (*domainauth.User, error)
	Delete(ctx context.Context, id int) error
}
