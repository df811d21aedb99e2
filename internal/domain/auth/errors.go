package auth

import "fmt"

// ErrorCode is the stable identifier of an authentication failure.
type ErrorCode string

const (
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
	CodeServerError        ErrorCode = "SERVER_ERROR"
	CodeNetworkError       ErrorCode = "NETWORK_ERROR"
	CodeUnknownError       ErrorCode = "UNKNOWN_ERROR"
)

// Error is a typed authentication error with a human-readable message.
// StatusCode is the backend HTTP status when one was received, zero otherwise.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Cause      error
}

// NewError builds an Error without an underlying cause.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code so callers can compare against sentinels
// built with NewError.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// DefaultMessage returns the console's user-facing message for code.
func DefaultMessage(code ErrorCode) string {
	switch code {
	case CodeInvalidCredentials:
		return "Credenciales incorrectas"
	case CodeUnauthorized:
		return "No autorizado"
	case CodeTokenExpired:
		return "La sesión ha expirado"
	case CodeTooManyRequests:
		return "Demasiados intentos"
	case CodeServerError:
		return "Error del servidor"
	case CodeNetworkError:
		return "Error de conexión"
	default:
		return "Error desconocido"
	}
}
