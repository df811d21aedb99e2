package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ticketdesk/admin-console/internal/apiclient"
)

func statusErr(code int, msg string) error {
	return fmt.Errorf("create user: %w", &apiclient.StatusError{
		Method: http.MethodPost, Path: "/users", StatusCode: code, Message: msg,
	})
}

func TestMapAPIError_NilError(t *testing.T) {
	if err := MapAPIError(nil); err != nil {
		t.Errorf("MapAPIError(nil) = %v, want nil", err)
	}
}

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  Code
		wantMsg   string
		wantField string
	}{
		{name: "deadline", err: fmt.Errorf("list: %w", context.DeadlineExceeded), wantCode: CodeTimeout, wantMsg: MsgTimeout},
		{name: "canceled", err: context.Canceled, wantCode: CodeCanceled, wantMsg: MsgCanceled},
		{name: "not found", err: statusErr(http.StatusNotFound, "User not found"), wantCode: CodeNotFound, wantMsg: MsgNotFound},
		{
			name:      "duplicate email",
			err:       statusErr(http.StatusConflict, "email already registered"),
			wantCode:  CodeConflict,
			wantMsg:   MsgConflict,
			wantField: "email",
		},
		{name: "conflict without field", err: statusErr(http.StatusConflict, ""), wantCode: CodeConflict, wantMsg: MsgConflict},
		{
			name:      "bad request on one field",
			err:       statusErr(http.StatusBadRequest, "annex must be shorter"),
			wantCode:  CodeValidation,
			wantMsg:   "annex must be shorter",
			wantField: "annex",
		},
		{
			name:     "unprocessable without message",
			err:      statusErr(http.StatusUnprocessableEntity, ""),
			wantCode: CodeValidation,
			wantMsg:  MsgInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapAPIError(tt.err)
			var appErr *AppError
			if !errors.As(mapped, &appErr) {
				t.Fatalf("MapAPIError(%v) = %T, want *AppError", tt.err, mapped)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", appErr.Code, tt.wantCode)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", appErr.Message, tt.wantMsg)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
			if !errors.Is(mapped, tt.err) {
				t.Errorf("mapped error lost its cause")
			}
		})
	}
}

func TestMapAPIError_Unchanged(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unauthorized", err: statusErr(http.StatusUnauthorized, "")},
		{name: "server error", err: statusErr(http.StatusBadGateway, "")},
		{name: "transport", err: &apiclient.TransportError{Method: http.MethodGet, Path: "/users", Err: errors.New("refused")}},
		{name: "plain", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapAPIError(tt.err); got != tt.err { //nolint:errorlint // identity is the point
				t.Errorf("MapAPIError() = %v, want the original error", got)
			}
		})
	}

	already := &AppError{Code: CodeNotFound, Message: "x"}
	if got := MapAPIError(already); got != error(already) {
		t.Errorf("classified error was re-wrapped: %v", got)
	}
}

func TestFieldFromMessage(t *testing.T) {
	tests := map[string]string{
		"Email must be an email":      "email",
		"email and firstname invalid": "",
		"something else":              "",
		"Lastname is required":        "lastname",
	}
	for msg, want := range tests {
		if got := FieldFromMessage(msg); got != want {
			t.Errorf("FieldFromMessage(%q) = %q, want %q", msg, got, want)
		}
	}
}
