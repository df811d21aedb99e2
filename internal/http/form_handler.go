package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// FormParser parses form data from an HTTP request and returns the parsed data
// along with any field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormService is the Create/Update pair a form submits to.
type FormService[T any] interface {
	Create(ctx context.Context, req T) error
	Update(ctx context.Context, id int, req T) error
}

// FormRenderer is a function that renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W        http.ResponseWriter
	R        *http.Request
	Mode     FormMode
	Parser   FormParser[T]
	Service  FormService[T]
	Renderer FormRenderer
	// SuccessURL is where the browser goes after a successful save.
	SuccessURL string
	PageMeta   PageMeta
	// ExtraData is passed to the template on error.
	ExtraData map[string]any
	// ErrorStatus is sent with validation errors; 0 keeps 200 for htmx swaps.
	ErrorStatus int
}

// HandleForm processes a create or edit submission: parse, validate, save,
// then redirect, re-rendering the form with messages on any failure.
//
//	HandleForm(FormHandlerOpts[userFormData]{
//	    W: w, R: r, Mode: FormModeCreate,
//	    Parser: parseUserForm,
//	    Service: userFormService{h.Users},
//	    Renderer: h.renderUserForm,
//	    SuccessURL: "/dashboard/users?toast=created",
//	})
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if !validateFormOptions(opts) {
		return
	}

	id, ok := checkFormID(opts)
	if !ok {
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderFormError(fieldErrors, nil, data)
		return
	}

	if err := executeFormOperation(opts, id, data); err != nil {
		handleFormServiceError(opts, err, data)
		return
	}

	redirectTo(opts.W, opts.R, opts.SuccessURL)
}

func validateFormOptions[T any](opts FormHandlerOpts[T]) bool {
	if opts.Parser == nil || opts.Service == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return false
	}

	switch opts.Mode {
	case FormModeEdit, FormModeCreate:
		return true
	default:
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return false
	}
}

// checkFormID returns the path ID in edit mode. Create mode yields 0.
func checkFormID[T any](opts FormHandlerOpts[T]) (int, bool) {
	if opts.Mode != FormModeEdit {
		return 0, true
	}

	id, ok := pathID(opts.R)
	if !ok {
		http.NotFound(opts.W, opts.R)
		return 0, false
	}
	return id, true
}

// pathID parses the {id} path value as a positive integer.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func executeFormOperation[T any](opts FormHandlerOpts[T], id int, data T) error {
	if opts.Mode == FormModeEdit {
		return opts.Service.Update(opts.R.Context(), id, data)
	}
	return opts.Service.Create(opts.R.Context(), data)
}

func handleFormServiceError[T any](opts FormHandlerOpts[T], err error, data T) {
	if errors.Is(err, context.Canceled) {
		http.Error(opts.W, "request canceled", http.StatusRequestTimeout)
		return
	}
	// A 401 already queued a redirect to the login page; the body is discarded.
	opts.renderFormError(nil, err, data)
}

// renderFormError renders the form with errors and preserves form data.
func (fh FormHandlerOpts[T]) renderFormError(fieldErrors map[string]string, err error, data T) {
	extra := map[string]any{
		"Mode":     fh.Mode,
		"FormData": data,
	}
	for k, v := range fh.ExtraData {
		extra[k] = v
	}

	status := DetermineErrorStatus(err)
	if status == 0 && fh.ErrorStatus != 0 && len(fieldErrors) > 0 {
		status = fh.ErrorStatus
	}

	RenderError(ErrorOpts{
		W:           fh.W,
		R:           fh.R,
		Err:         err,
		FieldErrors: fieldErrors,
		Renderer:    fh.Renderer,
		PageMeta:    fh.PageMeta,
		Data:        extra,
		StatusCode:  status,
	})
}
