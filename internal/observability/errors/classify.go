// Package errors names failures for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
)

// Classify returns a short, low-cardinality name for err. Auth failures use
// their code, transport failures a fixed class, and anything else the type
// of the innermost error.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var authErr *domainauth.Error
	if goerrors.As(err, &authErr) {
		return strings.ToLower(string(authErr.Code))
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "network_timeout"
		}
		return "network"
	}

	return typeName(innermost(err))
}

func innermost(err error) error {
	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// typeName turns *pkg.someError into pkg_someerror.
func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
}
