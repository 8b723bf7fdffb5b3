package api

import "net/http"

// StatsHandler serves the teacher and admin views.
type StatsHandler struct {
	responder
	deps Dependencies
}

// HandleStats handles GET /stats. Teachers and admins only.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	st, err := h.deps.Stats(r.Context(), viewerFrom(r))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleOverview handles GET /overview. Admins only.
func (h *StatsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_overview"
	ov, err := h.deps.Overview(r.Context(), viewerFrom(r))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}
