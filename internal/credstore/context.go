package credstore

import (
	"context"

	"github.com/ticketdesk/admin-console/internal/ports"
)

type credentialsKey struct{}

// WithCredentials returns a context carrying creds. Outbound API calls made
// with the returned context authenticate with these credentials.
func WithCredentials(ctx context.Context, creds ports.CredentialStore) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// FromContext returns the credentials carried by ctx, if any.
func FromContext(ctx context.Context) (ports.CredentialStore, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(ports.CredentialStore)
	return creds, ok && creds != nil
}
