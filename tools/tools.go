//go:build tools

// Package tools documents development tool dependencies. They are installed
// with `go install` and are not tracked in go.mod.
package tools

// Air reloads the console on source changes. Pair it with DEV=true so
// templates and static files are also read from disk.
//   Install: go install github.com/air-verse/air@v1.63.0
//
// mockgen regenerates internal/mocks from the ports interfaces.
//   Run: go generate ./internal/mocks
