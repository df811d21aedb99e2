package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFriendlyRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   time.Time
		want string
	}{
		{now.Add(time.Minute), "justo ahora"},
		{now.Add(-10 * time.Second), "justo ahora"},
		{now.Add(-90 * time.Second), "hace 1 minuto"},
		{now.Add(-5 * time.Minute), "hace 5 minutos"},
		{now.Add(-61 * time.Minute), "hace 1 hora"},
		{now.Add(-3 * time.Hour), "hace 3 horas"},
		{now.Add(-50 * time.Hour), "hace 2 días"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FriendlyRelativeTime(tt.in))
	}

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, FormatFriendlyDateTime(old), FriendlyRelativeTime(old))
}

func TestFormatFriendlyDateTime(t *testing.T) {
	assert.Empty(t, FormatFriendlyDateTime(time.Time{}))
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	assert.Equal(t, "09/03/2024 14:05", FormatFriendlyDateTime(ts))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AP", Initials("ana", "pérez"))
	assert.Equal(t, "Á", Initials("Álvaro", ""))
	assert.Empty(t, Initials(" ", ""))
}
