package httpx

import (
	"net/http"
)

// PaginationData contains pagination information for list views.
type PaginationData struct {
	Page       int
	PageSize   int
	TotalCount int
	Shown      int // items on this page
	BasePath   string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds the page window and PrevURL/NextURL links.
func (b *TemplateDataBuilder) WithPagination(opts PaginationData) *TemplateDataBuilder {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset := (opts.Page - 1) * pageSize
	hasPrev := opts.Page > 1
	hasNext := offset+opts.Shown < opts.TotalCount

	b.data["Page"] = opts.Page
	b.data["PageSize"] = pageSize
	b.data["TotalCount"] = opts.TotalCount
	b.data["HasPrev"] = hasPrev
	b.data["HasNext"] = hasNext
	b.data["TotalPages"] = (opts.TotalCount + pageSize - 1) / pageSize
	if opts.Shown > 0 {
		b.data["StartIndex"] = offset + 1
		b.data["EndIndex"] = offset + opts.Shown
	}

	q := b.r.URL.Query()
	if hasPrev {
		b.data["PrevURL"] = buildPageURL(opts.BasePath, q, pageOpts{Page: opts.Page - 1, PageSize: pageSize})
	}
	if hasNext {
		b.data["NextURL"] = buildPageURL(opts.BasePath, q, pageOpts{Page: opts.Page + 1, PageSize: pageSize})
	}

	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithToast shows a one-off notice on the rendered page.
func (b *TemplateDataBuilder) WithToast(message, toastType string) *TemplateDataBuilder {
	if message == "" {
		return b
	}
	b.data["Toast"] = map[string]string{"Message": message, "Type": toastType}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
