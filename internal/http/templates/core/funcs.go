// Package core provides the template helpers shared by every console page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/ticketdesk/admin-console/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"timeTag":      createTimeTagFunc(),
		"formatNumber": formatNumberTemplate,
		"statusLabel":  StatusLabel,
		"statusClass":  StatusClass,
		"yesNo":        YesNo,
		"dict":         Dict,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

}

// Dict builds a map from alternating keys and values so a template can pass
// several named arguments to a partial.
func Dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires an even number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %d is %T, not string", i/2, pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func timeValue(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func createTimeTagFunc() func(any) template.HTML {
	return func(ts any) template.HTML {
		t0 := timeValue(ts)
		if t0.IsZero() {
			return ""
		}
		friendly := uiutil.FormatFriendlyDateTime(t0)
		dt := t0.UTC().Format(time.RFC3339)
		title := uiutil.FriendlyRelativeTime(t0)
		// #nosec G203 - built from escaped values only
		return template.HTML(
			fmt.Sprintf(
				"<time datetime=\"%s\" title=\"%s\">%s</time>",
				dt,
				template.HTMLEscapeString(title),
				template.HTMLEscapeString(friendly),
			),
		)
	}
}

// formatNumberTemplate formats integers with dot thousands separators.
func formatNumberTemplate(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		prefix := len(s) % 3
		if prefix == 0 {
			prefix = 3
		}
		b.WriteString(s[:prefix])
		for i := prefix; i < len(s); i += 3 {
			b.WriteByte('.')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// StatusLabel renders a user's active flag.
func StatusLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}

// StatusClass returns the badge class for a user's active flag.
func StatusClass(active bool) string {
	if active {
		return "badge-success"
	}
	return "badge-secondary"
}

// YesNo renders a boolean flag.
func YesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}
