package apiclient

import (
	"context"
	"errors"
	"strconv"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// envelope is the backend's response wrapper.
type envelope[T any] struct {
	Message string `json:"message,omitempty"`
	Payload T      `json:"payload"`
}

// ErrMissingPayload is returned when a successful response lacks the expected payload.
var ErrMissingPayload = errors.New("response missing payload")

// AuthEndpoint implements ports.AuthAPI.
type AuthEndpoint struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthEndpoint)(nil)

// NewAuthEndpoint wraps c.
func NewAuthEndpoint(c *Client) *AuthEndpoint {
	return &AuthEndpoint{client: c}
}

// SignIn posts credentials to /auth/signin without interceptors, so a
// rejected login never clears anything or redirects.
func (e *AuthEndpoint) SignIn(ctx context.Context, req domainauth.LoginRequest) (*domainauth.LoginResponse, error) {
	var resp domainauth.LoginResponse
	if err := e.client.Unauthenticated().Post(ctx, "/auth/signin", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the user bound to the bearer token of ctx's credentials.
func (e *AuthEndpoint) Me(ctx context.Context) (*domainauth.User, error) {
	var resp domainauth.MeResponse
	if err := e.client.Get(ctx, "/auth/me", &resp); err != nil {
		return nil, err
	}
	if resp.Payload.User == nil {
		return nil, ErrMissingPayload
	}
	return resp.Payload.User, nil
}

// UsersEndpoint implements ports.UsersAPI over /users.
type UsersEndpoint struct {
	client *Client
}

var _ ports.UsersAPI = (*UsersEndpoint)(nil)

// NewUsersEndpoint wraps c.
func NewUsersEndpoint(c *Client) *UsersEndpoint {
	return &UsersEndpoint{client: c}
}

func userPath(id int) string {
	return "/users/" + strconv.Itoa(id)
}

func (e *UsersEndpoint) List(ctx context.Context) ([]domainauth.User, error) {
	var resp envelope[[]domainauth.User]
	if err := e.client.Get(ctx, "/users", &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

func (e *UsersEndpoint) Get(ctx context.Context, id int) (*domainauth.User, error) {
	var resp envelope[*domainauth.User]
	if err := e.client.Get(ctx, userPath(id), &resp); err != nil {
		return nil, err
	}
	if resp.Payload == nil {
		return nil, ErrMissingPayload
	}
	return resp.Payload, nil
}

// Create returns the created user, or nil when the backend omits it.
func (e *UsersEndpoint) Create(ctx context.Context, in domainauth.UserInput) (*domainauth.User, error) {
	var resp envelope[*domainauth.User]
	if err := e.client.Post(ctx, "/users", in, &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

// Update returns the updated user, or nil when the backend omits it.
func (e *UsersEndpoint) Update(ctx context.Context, id int, in domainauth.UserInput) (*domainauth.User, error) {
	var resp envelope[*domainauth.User]
	if err := e.client.Patch(ctx, userPath(id), in, &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

func (e *UsersEndpoint) Delete(ctx context.Context, id int) error {
	return e.client.Delete(ctx, userPath(id), nil)
}
