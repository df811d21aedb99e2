// Package mocks provides mock implementations for testing the admin console.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	creds := mocks.NewMockCredentialStore(ctrl)
//	creds.EXPECT().Clear(gomock.Any()).Return(nil).Times(1)
package mocks

// Generate mock for KVStore interface from internal/ports package.
// This creates MockKVStore with methods: Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=kv_store_mock.go github.com/ticketdesk/admin-console/internal/ports KVStore

// Generate mock for CredentialStore interface from internal/ports package.
// This creates MockCredentialStore with methods: SetToken, Token, SetUser, User, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/ticketdesk/admin-console/internal/ports CredentialStore

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods: SignIn, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/ticketdesk/admin-console/internal/ports AuthAPI

// Generate mock for UsersAPI interface from internal/ports package.
// This creates MockUsersAPI with methods: List, Get, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=users_api_mock.go github.com/ticketdesk/admin-console/internal/ports UsersAPI
