// Package validation checks submitted form values and collects per-field
// messages for re-rendering the form.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule returns a user-facing message when v is invalid, or "".
// Every rule except Required accepts the empty string.
type Rule func(v string) string

// emailPattern is loose; the ticketing backend has the final say.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether v looks like an email address.
func IsEmail(v string) bool {
	return emailPattern.MatchString(strings.TrimSpace(v))
}

// Required rejects blank values.
func Required(label string) Rule {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return label + " es obligatorio."
		}
		return ""
	}
}

// MaxRunes caps the trimmed value at n characters.
func MaxRunes(label string, n int) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > n {
			return fmt.Sprintf("%s no puede superar %d caracteres.", label, n)
		}
		return ""
	}
}

// MinRunes requires at least n characters. Surrounding spaces count, as they
// do in passwords.
func MinRunes(label string, n int) Rule {
	return func(v string) string {
		if v != "" && utf8.RuneCountInString(v) < n {
			return fmt.Sprintf("%s debe tener al menos %d caracteres.", label, n)
		}
		return ""
	}
}

// Email checks the address shape.
func Email() Rule {
	return func(v string) string {
		if strings.TrimSpace(v) != "" && !IsEmail(v) {
			return "Ingresa un correo electrónico válido."
		}
		return ""
	}
}

// Form collects the first failing rule per field.
type Form struct {
	errs map[string]string
}

// New returns an empty Form.
func New() *Form {
	return &Form{errs: map[string]string{}}
}

// Field runs rules against value in order and records the first message.
func (f *Form) Field(name, value string, rules ...Rule) *Form {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			f.errs[name] = msg
			return f
		}
	}
	return f
}

// Errors returns the messages keyed by field name.
func (f *Form) Errors() map[string]string {
	return f.errs
}

// Valid reports whether every field passed.
func (f *Form) Valid() bool {
	return len(f.errs) == 0
}
