package service

import (
	"net/url"
	"strings"
)

// Navigation targets used by the guards.
const (
	LoginPath   = "/auth/login"
	LandingPath = "/dashboard"
)

// SafeRedirectPath returns candidate when it is a local absolute path, and
// fallback otherwise. Scheme-relative and absolute URLs are rejected.
func SafeRedirectPath(candidate, fallback string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return fallback
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return candidate
}

// LoginURL returns the login page URL that sends the user back to
// requestURI (path plus query) after signing in.
func LoginURL(requestURI string) string {
	target := SafeRedirectPath(requestURI, "")
	if target == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(target)
}
