package api

import (
	"net/http"
	"time"
)

const timeFormat = time.RFC3339

// ResultsHandler serves stored results.
type ResultsHandler struct {
	responder
	deps Dependencies
}

// HandleResult handles GET /results/{id}.
func (h *ResultsHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	view, err := h.deps.Result(r.Context(), viewerFrom(r), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleUserResults handles GET /users/{id}/results.
func (h *ResultsHandler) HandleUserResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user_results"
	views, err := h.deps.ResultsByUser(r.Context(), viewerFrom(r), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": views})
}
