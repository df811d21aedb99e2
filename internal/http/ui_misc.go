package httpx

import (
	"net/http"
)

// NotFound answers unknown routes and missing records. Browsers get the error
// page; other callers get JSON.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
	} else {
		h.renderAPINotFound(w, r)
	}
}

func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	signedIn := IsSignedIn(r.Context())
	data := map[string]any{
		"Title":           "Página no encontrada - Consola",
		"Code":            "404",
		"Message":         "La página que buscas no existe.",
		"IsAuthenticated": signedIn,
		"HomeURL":         "/dashboard",
	}
	if !signedIn {
		data["HomeURL"] = "/auth/login"
	}

	if h.T == nil {
		http.Error(w, "Página no encontrada", http.StatusNotFound)
		return
	}
	// Buffered render: on failure nothing has been written yet.
	if err := h.T.RenderErrorStatus(w, http.StatusNotFound, data); err != nil {
		http.Error(w, "Página no encontrada", http.StatusNotFound)
	}
}

func (h *UIHandlers) renderAPINotFound(w http.ResponseWriter, _ *http.Request) {
	WriteJSONError(w, http.StatusNotFound, "not_found", "")
}
