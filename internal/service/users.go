package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	apperrors "github.com/ticketdesk/admin-console/internal/errors"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// ErrInvalidUserID is returned for non-positive user IDs.
var ErrInvalidUserID = errors.New("invalid user id")

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	API    ports.UsersAPI
	Logger *slog.Logger
}

// UserService is the CRUD glue between the user screens and the backend.
// Calls authenticate with the credentials carried by ctx.
type UserService struct {
	api    ports.UsersAPI
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{api: opts.API, logger: logger.With("component", "user_service")}
}

// UserListOptions filters and pages the user list. The backend returns every
// user at once, so filtering and paging happen here.
type UserListOptions struct {
	Search string
	Limit  int
	Offset int
}

// UserPage is one page of the filtered user list.
type UserPage struct {
	Users []domainauth.User
	// Total counts users matching the filter across all pages.
	Total int
}

// List returns users matching opts.Search (name or email, case-insensitive),
// ordered by ID.
func (s *UserService) List(ctx context.Context, opts UserListOptions) (UserPage, error) {
	all, err := s.api.List(ctx)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", apperrors.MapAPIError(err))
	}

	filtered := filterUsers(all, opts.Search)
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	page := UserPage{Total: len(filtered)}
	start := max(opts.Offset, 0)
	if start >= len(filtered) {
		return page, nil
	}
	end := len(filtered)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	page.Users = filtered[start:end]
	return page, nil
}

func filterUsers(users []domainauth.User, search string) []domainauth.User {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]domainauth.User, 0, len(users))
	for _, u := range users {
		if q == "" ||
			strings.Contains(strings.ToLower(u.FullName()), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// GetByID retrieves one user.
func (s *UserService) GetByID(ctx context.Context, id int) (*domainauth.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, apperrors.MapAPIError(err))
	}
	return u, nil
}

// Create creates a user from normalized input.
func (s *UserService) Create(ctx context.Context, in domainauth.UserInput) (*domainauth.User, error) {
	u, err := s.api.Create(ctx, normalizeUserInput(in))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", apperrors.MapAPIError(err))
	}
	return u, nil
}

// Update replaces the editable fields of user id.
func (s *UserService) Update(ctx context.Context, id int, in domainauth.UserInput) (*domainauth.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.api.Update(ctx, id, normalizeUserInput(in))
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, apperrors.MapAPIError(err))
	}
	return u, nil
}

// Delete removes user id.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidUserID
	}
	if err := s.api.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, apperrors.MapAPIError(err))
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func normalizeUserInput(in domainauth.UserInput) domainauth.UserInput {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Annex = strings.TrimSpace(in.Annex)
	return in
}

// IsNotFound reports whether err is the backend saying the user does not exist.
func IsNotFound(err error) bool {
	return apperrors.IsNotFound(apperrors.MapAPIError(err))
}

// UserMessage returns a message suitable for showing err to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidUserID) {
		return "Identificador de usuario inválido"
	}
	var appErr *apperrors.AppError
	if errors.As(apperrors.MapAPIError(err), &appErr) {
		return appErr.Message
	}
	mapped := MapError(err)
	if mapped.Code == domainauth.CodeUnknownError && mapped.StatusCode == 0 {
		return domainauth.DefaultMessage(domainauth.CodeUnknownError)
	}
	return mapped.Message
}
