package core

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumberTemplate(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{int64(-25000), "-25.000"},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumberTemplate(tt.in))
	}
}

func TestFuncsRegistersOnlyUsedHelpers(t *testing.T) {
	funcs := Funcs(Deps{ContentTemplateFor: func(page string) string { return page + "-content" }})
	for _, name := range []string{"timeTag", "formatNumber", "statusLabel", "statusClass", "yesNo", "dict", "renderSection"} {
		assert.Contains(t, funcs, name)
	}
	for _, name := range []string{"friendlyTime", "add", "sub", "truncateText", "initials"} {
		assert.NotContains(t, funcs, name)
	}
}

func TestFlagHelpers(t *testing.T) {
	assert.Equal(t, "Activo", StatusLabel(true))
	assert.Equal(t, "Inactivo", StatusLabel(false))
	assert.Equal(t, "badge-success", StatusClass(true))
	assert.Equal(t, "Sí", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
}

func TestTimeHelpers(t *testing.T) {
	tag := createTimeTagFunc()

	assert.Empty(t, tag(nil))
	var nilTime *time.Time
	assert.Empty(t, tag(nilTime))
	assert.Empty(t, tag(time.Time{}))

	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	assert.NotEmpty(t, tag(&ts))
	html := string(tag(ts))
	assert.True(t, strings.HasPrefix(html, `<time datetime="2024-05-01T08:30:00Z"`), html)
}

func TestRenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "users-content"}}<p>{{.}}</p>{{end}}{{define "page"}}{{renderSection "users" .}}{{end}}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "page", "<b>Ana</b>"))
	assert.Equal(t, "<p>&lt;b&gt;Ana&lt;/b&gt;</p>", buf.String())
}

func TestDict(t *testing.T) {
	m, err := Dict("Name", "email", "Required", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "email", "Required": true}, m)

	_, err = Dict("odd")
	require.Error(t, err)

	_, err = Dict(1, "x")
	require.Error(t, err)
}
