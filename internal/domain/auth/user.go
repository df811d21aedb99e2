// Package auth contains domain-level types for console authentication and the
// user records the ticketing backend exposes. It is free of transport concerns.
package auth

import "time"

// Role is a named role attached to a user position.
// Role names are compared as plain strings.
type Role struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	CreatedDate *time.Time `json:"createdDate,omitempty"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
}

// Department groups positions within the organization.
type Department struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	CreatedDate *time.Time `json:"createdDate,omitempty"`
	UpdatedDate *time.Time `json:"updatedDate,omitempty"`
}

// Position binds a role to a department for a user.
type Position struct {
	ID         int        `json:"id"`
	Role       Role       `json:"role"`
	Department Department `json:"department"`
}

// Notification is an in-app notification attached to a user.
type Notification struct {
	ID          int        `json:"id"`
	Title       string     `json:"title,omitempty"`
	Message     string     `json:"message,omitempty"`
	IsRead      bool       `json:"isRead,omitempty"`
	CreatedDate *time.Time `json:"createdDate,omitempty"`
}

// User is the backend's user record. The console caches it as the
// authenticated profile and renders it on the CRUD screens.
type User struct {
	ID           int            `json:"id"`
	Firstname    string         `json:"firstname"`
	Lastname     string         `json:"lastname"`
	Email        string         `json:"email"`
	Status       bool           `json:"status"`
	IsMailable   bool           `json:"isMailable"`
	IsNotifiable bool           `json:"isNotifiable"`
	Annex        string         `json:"annex,omitempty"`
	Positions    []Position     `json:"positions,omitempty"`
	Notification []Notification `json:"notification,omitempty"`
	IsFirstLogin bool           `json:"isFirstLogin,omitempty"`
	CreatedDate  *time.Time     `json:"createdDate,omitempty"`
	UpdatedDate  *time.Time     `json:"updatedDate,omitempty"`
}

// FullName returns "firstname lastname" trimmed of missing parts.
func (u User) FullName() string {
	switch {
	case u.Firstname == "":
		return u.Lastname
	case u.Lastname == "":
		return u.Firstname
	default:
		return u.Firstname + " " + u.Lastname
	}
}

// HasRole reports whether any of the user's positions carries the named role.
func (u User) HasRole(name string) bool {
	for _, p := range u.Positions {
		if p.Role.Name == name {
			return true
		}
	}
	return false
}

// UserInput is the body accepted by the backend for create and update.
type UserInput struct {
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Status       bool   `json:"status"`
	IsMailable   bool   `json:"isMailable"`
	IsNotifiable bool   `json:"isNotifiable"`
	Annex        string `json:"annex"`
	Roles        []int  `json:"roles,omitempty"`
	Departments  []int  `json:"departments,omitempty"`
}

// InputFromUser copies the editable fields of u.
func InputFromUser(u User) UserInput {
	return UserInput{
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Email:        u.Email,
		Status:       u.Status,
		IsMailable:   u.IsMailable,
		IsNotifiable: u.IsNotifiable,
		Annex:        u.Annex,
	}
}
