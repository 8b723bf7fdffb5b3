package api

import "net/http"

// QuestionsHandler serves the questionnaire.
type QuestionsHandler struct {
	responder
	deps Dependencies
}

// HandleQuestions handles GET /questions. An empty questionnaire is a 422.
func (h *QuestionsHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_questions"
	q, err := h.deps.Questionnaire(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
