package service

import (
	"errors"
	"net/http"

	"github.com/ticketdesk/admin-console/internal/apiclient"
	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
)

// MapError translates any error into the authentication error taxonomy.
// Errors that already are *auth.Error are returned unchanged.
func MapError(err error) *domainauth.Error {
	if err == nil {
		return nil
	}

	var authErr *domainauth.Error
	if errors.As(err, &authErr) {
		return authErr
	}

	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		code := codeForStatus(statusErr.StatusCode)
		msg := statusErr.Message
		if msg == "" {
			msg = domainauth.DefaultMessage(code)
		}
		return &domainauth.Error{
			Code:       code,
			Message:    msg,
			StatusCode: statusErr.StatusCode,
			Cause:      err,
		}
	}

	var transportErr *apiclient.TransportError
	if errors.As(err, &transportErr) {
		return &domainauth.Error{
			Code:    domainauth.CodeNetworkError,
			Message: domainauth.DefaultMessage(domainauth.CodeNetworkError),
			Cause:   err,
		}
	}

	return &domainauth.Error{
		Code:    domainauth.CodeUnknownError,
		Message: err.Error(),
		Cause:   err,
	}
}

func codeForStatus(status int) domainauth.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return domainauth.CodeInvalidCredentials
	case http.StatusForbidden:
		return domainauth.CodeUnauthorized
	case http.StatusTooManyRequests:
		return domainauth.CodeTooManyRequests
	}
	if status >= http.StatusInternalServerError && status <= 599 {
		return domainauth.CodeServerError
	}
	return domainauth.CodeUnknownError
}
