package metrics

import (
	"time"

	obserrors "github.com/ticketdesk/admin-console/internal/observability/errors"
	"github.com/ticketdesk/admin-console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRedirect = "redirect"
	ResultContinue = "continue"
	ResultCleared  = "cleared"
)

// Auth event names.
const (
	EventLogin        = "login"
	EventVerify       = "verify"
	EventLogout       = "logout"
	EventGuard        = "guard"
	EventUnauthorized = "unauthorized"
)

// AuthMetric captures one authentication event for metric emission.
type AuthMetric struct {
	Event string
	// Guard is "protected" or "public" for guard events.
	Guard    string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAuthEvent emits standardised authentication metrics.
func EmitAuthEvent(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"event":  in.Event,
		"result": in.Result,
	}
	if in.Guard != "" {
		tags["guard"] = in.Guard
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("auth."+in.Event, 1, tags)

	if in.Duration > 0 {
		sink.Timing("auth."+in.Event+".duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
