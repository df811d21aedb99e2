package httpx

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ticketdesk/admin-console/internal/credstore"
	mockauth "github.com/ticketdesk/admin-console/internal/mocks/auth"
	"github.com/ticketdesk/admin-console/internal/navigation"
)

func TestCurrentUser(t *testing.T) {
	assert.Nil(t, CurrentUser(context.Background()), "no navigation context")

	nav := navigation.New()
	ctx := navigation.NewContext(context.Background(), nav)
	assert.Nil(t, CurrentUser(ctx))
	assert.False(t, IsSignedIn(ctx))

	user := mockauth.DefaultUser()
	nav.SetUser(&user)
	assert.Equal(t, &user, CurrentUser(ctx))
	assert.True(t, IsSignedIn(ctx))
}

func TestRequestCredentials(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, ok := requestCredentials(r)
	assert.False(t, ok)

	creds := mockauth.NewMemoryCredentials()
	r = r.WithContext(credstore.WithCredentials(r.Context(), creds))
	got, ok := requestCredentials(r)
	assert.True(t, ok)
	assert.Same(t, creds, got)
}
