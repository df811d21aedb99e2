package httpx

import (
	"net/http"

	"github.com/ticketdesk/admin-console/internal/service"
)

// Index sends the site root to the landing page.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, service.LandingPath, http.StatusSeeOther)
}

// Dashboard greets the signed-in user and shows their profile.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{
		Title:       "Panel - Consola",
		PageTitle:   "Panel",
		CurrentPage: PageDashboard,
	})

	// RequireSession guarantees a user; an empty profile still renders.
	if user := CurrentUser(r.Context()); user != nil {
		data.With("Profile", user)
	}

	h.renderDashboardPage(w, r, data.Build())
}
