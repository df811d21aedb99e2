// Package uiutil holds formatting helpers shared by handlers and template funcs.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

// FriendlyDateTimeLayout is the day-first layout the console uses for timestamps.
const FriendlyDateTimeLayout = "02/01/2006 15:04"

// FriendlyRelativeTime returns a short Spanish description of how long ago t
// occurred. Future times read as "justo ahora".
func FriendlyRelativeTime(t time.Time) string {
	diff := time.Since(t)
	if diff < 0 {
		return "justo ahora"
	}

	switch {
	case diff < time.Minute:
		return "justo ahora"
	case diff < time.Hour:
		return ago(int(diff.Minutes()), "minuto", "minutos")
	case diff < 24*time.Hour:
		return ago(int(diff.Hours()), "hora", "horas")
	case diff < 7*24*time.Hour:
		return ago(int(diff.Hours()/24), "día", "días")
	default:
		return FormatFriendlyDateTime(t)
	}
}

func ago(n int, singular, plural string) string {
	if n == 1 {
		return "hace 1 " + singular
	}
	return "hace " + strconv.Itoa(n) + " " + plural
}

// FormatFriendlyDateTime returns t in local time using FriendlyDateTimeLayout.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// Initials returns up to two uppercase initials for a display name.
func Initials(first, last string) string {
	var b strings.Builder
	for _, part := range []string{first, last} {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r := []rune(part)[0]
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}
