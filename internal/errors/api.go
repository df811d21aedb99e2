package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ticketdesk/admin-console/internal/apiclient"
)

// Messages shown to console users.
const (
	MsgTimeout      = "La solicitud tardó demasiado. Por favor, intenta nuevamente."
	MsgCanceled     = "La solicitud fue cancelada."
	MsgNotFound     = "El usuario no existe o fue eliminado."
	MsgConflict     = "Ya existe un usuario con este valor."
	MsgInvalidInput = "Datos inválidos. Revisa el formulario."
)

// userFields are the user form fields a backend message can point at.
var userFields = []string{"firstname", "lastname", "email", "annex"}

// MapAPIError classifies errors returned by the backend client:
// - context deadline / cancellation → Timeout / Canceled
// - 404 → NotFound
// - 409 → Conflict, with the field guessed from the backend message
// - 400 and 422 → Validation, carrying the backend message
//
// Errors already classified and anything else (401, 5xx, transport failures)
// are returned unchanged.
func MapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, CodeTimeout, MsgTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, CodeCanceled, MsgCanceled)
	}

	var statusErr *apiclient.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return Wrap(err, CodeNotFound, MsgNotFound)
	case http.StatusConflict:
		return &AppError{
			Code:    CodeConflict,
			Message: MsgConflict,
			Field:   FieldFromMessage(statusErr.Message),
			Cause:   err,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := statusErr.Message
		if msg == "" {
			return Wrap(err, CodeValidation, MsgInvalidInput)
		}
		return &AppError{
			Code:    CodeValidation,
			Message: msg,
			Field:   FieldFromMessage(msg),
			Cause:   err,
		}
	default:
		return err
	}
}

// FieldFromMessage guesses the user form field a backend message is about.
// It returns "" when the message names no field or more than one.
func FieldFromMessage(msg string) string {
	lower := strings.ToLower(msg)
	var found string
	for _, field := range userFields {
		if strings.Contains(lower, field) {
			if found != "" {
				return ""
			}
			found = field
		}
	}
	return found
}
