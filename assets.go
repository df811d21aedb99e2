// Package console embeds the admin console's templates and static files so
// the binary can be deployed on its own. With DEV set, internal/http reads
// both from the working tree instead.
package console

import "embed"

// StaticFS holds frontend/static, served under /static/.
//
//go:embed all:frontend/static
var StaticFS embed.FS

// TemplateFS holds the html/template sources under frontend/templates.
//
//go:embed all:frontend/templates
var TemplateFS embed.FS
