package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/http/ui/viewmodel"
	"github.com/ticketdesk/admin-console/internal/http/uiutil"
	"github.com/ticketdesk/admin-console/internal/ports"
	"github.com/ticketdesk/admin-console/internal/service"
)

const errMsgFixBelow = "Por favor, corrige los errores indicados."

// AuthSessions is the part of AuthService the handlers use.
type AuthSessions interface {
	Login(ctx context.Context, creds ports.CredentialStore, email, password string) (*domainauth.LoginResponse, error)
	Logout(ctx context.Context, creds ports.CredentialStore)
	CurrentUser(ctx context.Context, creds ports.CredentialStore) *domainauth.User
	IsAuthenticated(ctx context.Context, creds ports.CredentialStore) bool
}

// UsersService is what the user screens call.
type UsersService interface {
	List(ctx context.Context, opts service.UserListOptions) (service.UserPage, error)
	GetByID(ctx context.Context, id int) (*domainauth.User, error)
	Create(ctx context.Context, in domainauth.UserInput) (*domainauth.User, error)
	Update(ctx context.Context, id int, in domainauth.UserInput) (*domainauth.User, error)
	Delete(ctx context.Context, id int) error
}

var (
	_ AuthSessions = (*service.AuthService)(nil)
	_ UsersService = (*service.UserService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T     *TemplateRenderer
	Auth  AuthSessions
	Users UsersService
	// IsDev shows template errors in the page.
	IsDev  bool
	Logger *slog.Logger
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta names a page for the layout.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData seeds every page with its titles, the form token and the
// signed-in user from the request context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
	}
	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if user := CurrentUser(r.Context()); user != nil {
		data["IsAuthenticated"] = true
		data["User"] = &viewmodel.User{
			ID:       user.ID,
			Name:     user.FullName(),
			Email:    user.Email,
			Initials: uiutil.Initials(user.Firstname, user.Lastname),
			Roles:    roleNames(user),
		}
	}
	return data
}

func roleNames(user *domainauth.User) []string {
	names := make([]string, 0, len(user.Positions))
	for _, p := range user.Positions {
		if p.Role.Name != "" {
			names = append(names, p.Role.Name)
		}
	}
	return names
}

// triggerToast asks the page to show a toast once htmx settles.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// renderDashboardPage renders a page inside the console layout. htmx
// navigations get only the content plus out-of-band title updates.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	page, _ := data["CurrentPage"].(string)

	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	// htmx picks document.title up from a <title> in the swapped content.
	head := `<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(pageTitle) + `</h1>`

	if err := h.T.RenderFragment(w, ContentTemplateFor(page), head, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// logAndRenderTemplateError logs a template failure. In dev mode the error
// is shown in the page.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, phase string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"phase", phase,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Phase:</strong> ` + html.EscapeString(phase) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
	if _, writeErr := w.Write([]byte(body)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}
