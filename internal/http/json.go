package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// apiError is the body of every JSON error the console sends.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON sends v with status. Responses are never cached since they
// describe the caller's session. An unencodable v becomes a bare 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Default().Error("failed to encode json response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteJSONError sends {"error": code, "message": message}. An empty message
// uses the status text.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	WriteJSON(w, status, apiError{Error: code, Message: message})
}
