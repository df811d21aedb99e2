package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ticketdesk/admin-console/internal/service"
)

// AuthHandlers serves the non-page auth endpoints.
type AuthHandlers struct {
	Sessions AuthSessions
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Logout forgets the browser's session and returns to the login page.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if creds, ok := requestCredentials(r); ok {
		h.Sessions.Logout(r.Context(), creds)
	} else {
		h.logger().WarnContext(r.Context(), "logout without browser identity")
	}
	redirectTo(w, r, service.LoginPath)
}

// statusUser is the public view of the signed-in user.
type statusUser struct {
	ID        int      `json:"id"`
	Firstname string   `json:"firstname"`
	Lastname  string   `json:"lastname"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// Status reports whether this browser holds a session, using cached data only.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	creds, ok := requestCredentials(r)
	if !ok || !h.Sessions.IsAuthenticated(r.Context(), creds) {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	// The entry may expire between the two reads.
	user := h.Sessions.CurrentUser(r.Context(), creds)
	if user == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": statusUser{
			ID:        user.ID,
			Firstname: user.Firstname,
			Lastname:  user.Lastname,
			Email:     user.Email,
			Roles:     roleNames(user),
		},
	})
}
