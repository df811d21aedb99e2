package httpx

import (
	"context"
	"net/http"

	"github.com/ticketdesk/admin-console/internal/credstore"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/navigation"
	"github.com/ticketdesk/admin-console/internal/ports"
)

// CurrentUser returns the user resolved for this navigation by the route
// guard, or nil when the page is anonymous.
func CurrentUser(ctx context.Context) *domainauth.User {
	user, _ := navigation.FromContext(ctx).User()
	return user
}

// IsSignedIn reports whether the guard resolved a user for this navigation.
func IsSignedIn(ctx context.Context) bool {
	return CurrentUser(ctx) != nil
}

// requestCredentials returns the browser's credential store. Requests that
// bypassed ClientIdentity have none.
func requestCredentials(r *http.Request) (ports.CredentialStore, bool) {
	return credstore.FromContext(r.Context())
}
