package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// readinessTimeout bounds a single dependency check.
const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency the console needs is reachable.
type ReadinessCheck func(ctx context.Context) error

type healthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// liveness answers as long as the process serves requests. HEAD gets headers
// only.
func liveness(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}

// readiness pings the credential store so a load balancer stops routing to
// an instance that would sign every browser out.
func readiness(check ReadinessCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := check(ctx); err != nil {
			logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			WriteJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "unavailable", Error: "credential store unreachable"})
			return
		}
		WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
	}
}
