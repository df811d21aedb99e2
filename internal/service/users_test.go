package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ticketdesk/admin-console/internal/apiclient"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	apperrors "github.com/ticketdesk/admin-console/internal/errors"
	"github.com/ticketdesk/admin-console/internal/mocks"
)

func newUserService(t *testing.T) (*mocks.MockUsersAPI, *UserService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	api := mocks.NewMockUsersAPI(ctrl)
	return api, NewUserService(UserServiceOptions{API: api})
}

func sampleUsers() []domainauth.User {
	return []domainauth.User{
		{ID: 3, Firstname: "Carla", Lastname: "Ruiz", Email: "carla@b.com"},
		{ID: 1, Firstname: "Ana", Lastname: "Pérez", Email: "ana@b.com"},
		{ID: 2, Firstname: "Luis", Lastname: "Soto", Email: "lsoto@b.com"},
	}
}

func TestUserService_ListPagesAndSorts(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	api.EXPECT().List(ctx).Return(sampleUsers(), nil).Times(2)

	page, err := svc.List(ctx, UserListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Users, 2)
	assert.Equal(t, 1, page.Users[0].ID)
	assert.Equal(t, 2, page.Users[1].ID)

	page, err = svc.List(ctx, UserListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, 3, page.Users[0].ID)
}

func TestUserService_ListSearch(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	api.EXPECT().List(ctx).Return(sampleUsers(), nil).Times(3)

	page, err := svc.List(ctx, UserListOptions{Search: "  RUIZ "})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, 3, page.Users[0].ID)

	page, err = svc.List(ctx, UserListOptions{Search: "lsoto@"})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)

	page, err = svc.List(ctx, UserListOptions{Search: "nadie", Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Users)
}

func TestUserService_CreateNormalizesInput(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	want := domainauth.UserInput{Firstname: "Ana", Lastname: "Pérez", Email: "ana@b.com", Status: true}
	api.EXPECT().Create(ctx, want).Return(&domainauth.User{ID: 9}, nil)

	u, err := svc.Create(ctx, domainauth.UserInput{Firstname: " Ana ", Lastname: "Pérez", Email: " ANA@b.com", Status: true})
	require.NoError(t, err)
	assert.Equal(t, 9, u.ID)
}

func TestUserService_InvalidID(t *testing.T) {
	t.Parallel()
	_, svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = svc.Update(ctx, -1, domainauth.UserInput{})
	assert.ErrorIs(t, err, ErrInvalidUserID)
	assert.ErrorIs(t, svc.Delete(ctx, 0), ErrInvalidUserID)
}

func TestUserService_DeleteWrapsError(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	api.EXPECT().Delete(ctx, 4).Return(&apiclient.StatusError{StatusCode: 403, Message: "Sin permisos"})

	err := svc.Delete(ctx, 4)
	var statusErr *apiclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Sin permisos", UserMessage(err))
}

func TestUserService_CreateClassifiesConflict(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	api.EXPECT().Create(ctx, gomock.Any()).
		Return(nil, &apiclient.StatusError{StatusCode: 409, Message: "email already exists"})

	_, err := svc.Create(ctx, domainauth.UserInput{Firstname: "Ana", Email: "ana@b.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.FieldOf(err))
	assert.Equal(t, apperrors.MsgConflict, UserMessage(err))
}

func TestUserService_GetNotFound(t *testing.T) {
	t.Parallel()
	api, svc := newUserService(t)
	ctx := context.Background()

	api.EXPECT().Get(ctx, 9).Return(nil, &apiclient.StatusError{StatusCode: 404})

	_, err := svc.GetByID(ctx, 9)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, apperrors.MsgNotFound, UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Error de conexión", UserMessage(&apiclient.TransportError{Err: errors.New("x")}))
	assert.Equal(t, "Error desconocido", UserMessage(errors.New("internal detail")))
	assert.Equal(t, "Identificador de usuario inválido", UserMessage(ErrInvalidUserID))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	notFound := &apiclient.StatusError{Method: "GET", Path: "/users/9", StatusCode: 404}
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(errors.Join(errors.New("get user"), notFound)))
	assert.False(t, IsNotFound(&apiclient.StatusError{StatusCode: 500}))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
