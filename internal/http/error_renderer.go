package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/ticketdesk/admin-console/internal/errors"
	"github.com/ticketdesk/admin-console/internal/service"
)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is optional when only field errors are reported.
	Err error
	// FieldErrors maps form field name to message.
	FieldErrors map[string]string
	// Renderer is typically h.renderDashboardPage.
	Renderer FormRenderer
	PageMeta PageMeta
	// Data is merged into the template data, e.g. to preserve form values.
	Data map[string]any
	// StatusCode defaults to 200 so htmx swaps the response.
	StatusCode int
	// ShowToast also sends the general message as an HX-Trigger toast.
	ShowToast bool
}

// DetermineErrorStatus picks the status to send for a backend failure.
// It returns 0 when the caller should keep its default.
func DetermineErrorStatus(err error) int {
	switch apperrors.CodeOf(apperrors.MapAPIError(err)) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return 0
	}
}

// RenderError renders a page carrying field errors and a general message.
//
// Usage:
//
//	RenderError(ErrorOpts{
//	    W: w, R: r, Err: err,
//	    Renderer: h.renderDashboardPage,
//	    PageMeta: PageMeta{Title: "Editar Usuario", CurrentPage: PageUserForm},
//	    Data: map[string]any{"Mode": "edit", "UserID": id},
//	})
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	// processError may add field errors.
	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}

	if opts.StatusCode != 0 {
		opts.W.Header().Set("Content-Type", "text/html; charset=utf-8")
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the message shown for err and moves errors that
// belong to a single field into fieldErrors.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	var appErr *apperrors.AppError
	if errors.As(apperrors.MapAPIError(err), &appErr) {
		switch appErr.Code {
		case apperrors.CodeConflict, apperrors.CodeValidation:
			return addFieldError(fieldErrors, appErr.Field, appErr.Message)
		default:
			return appErr.Message
		}
	}

	return service.UserMessage(err)
}

// addFieldError records msg on field when known, else returns msg as the
// general error.
func addFieldError(fieldErrors *map[string]string, field, msg string) string {
	if field == "" || fieldErrors == nil {
		return msg
	}
	if *fieldErrors == nil {
		*fieldErrors = make(map[string]string)
	}
	(*fieldErrors)[field] = msg
	return errMsgFixBelow
}
