package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	corefuncs "github.com/ticketdesk/admin-console/internal/http/templates/core"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t             *template.Template
	staticVersion string
	logger        *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // required
	// StaticVersion is appended to asset URLs to bust caches across deploys.
	StaticVersion string
	Logger        *slog.Logger
}

// NewTemplateRenderer parses every template under cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{
		staticVersion: strings.TrimSpace(cfg.StaticVersion),
		logger:        logger.With("component", "renderer"),
	}

	var t *template.Template
	funcs := createTemplateFuncs(&t, renderer)
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		renderer.logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data)
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "error-layout", data)
}

// RenderErrorStatus renders the error page with the given status code.
func (r *TemplateRenderer) RenderErrorStatus(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplateStatus(w, "error-layout", status, data)
}

// RenderNamed renders a standalone template such as the login page.
func (r *TemplateRenderer) RenderNamed(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, name, data)
}

// RenderFragment renders a content template for an htmx swap, preceded by
// head, which must already be escaped HTML.
func (r *TemplateRenderer) RenderFragment(w http.ResponseWriter, name, head string, data any) error {
	return r.render(w, name, head, 0, data)
}

// renderTemplate buffers the output so a failing template never leaves a
// half-written page behind.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	return r.render(w, templateName, "", 0, data)
}

// renderTemplateStatus writes status before the body unless it is 0.
func (r *TemplateRenderer) renderTemplateStatus(w http.ResponseWriter, templateName string, status int, data any) error {
	return r.render(w, templateName, "", status, data)
}

func (r *TemplateRenderer) render(w http.ResponseWriter, templateName, head string, status int, data any) error {
	var buf bytes.Buffer
	buf.WriteString(head)
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// asset returns the public URL of a file under /static.
func (r *TemplateRenderer) asset(name string) string {
	u := "/static/" + strings.TrimPrefix(name, "/")
	if r.staticVersion != "" {
		u += "?v=" + r.staticVersion
	}
	return u
}

func createTemplateFuncs(t **template.Template, renderer *TemplateRenderer) template.FuncMap {
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           t,
		ContentTemplateFor: ContentTemplateFor,
	})
	funcs["asset"] = renderer.asset
	return funcs
}
