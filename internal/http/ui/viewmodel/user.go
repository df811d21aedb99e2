// Package viewmodel holds typed data shared by rendered pages.
package viewmodel

// User is the signed-in user as shown in the page chrome.
type User struct {
	ID       int
	Name     string
	Email    string
	Initials string
	Roles    []string
}
