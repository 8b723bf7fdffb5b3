package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/internal/domain/scoring"
)

// SubmissionsHandler accepts completed questionnaires.
type SubmissionsHandler struct {
	responder
	deps     Dependencies
	maxBytes int64
}

// submissionRequest mirrors the OpenAPI schema for POST /submissions.
type submissionRequest struct {
	SubmissionID string          `json:"submission_id" validate:"omitempty,max=128,printascii"`
	Answers      []answerRequest `json:"answers" validate:"max=1000"`
}

type answerRequest struct {
	QuestionID int64 `json:"question_id"`
	OptionID   int64 `json:"option_id"`
}

type submissionResponse struct {
	ResultID        string                `json:"result_id"`
	TakenAt         string                `json:"taken_at"`
	RawScores       model.RawScores       `json:"raw_scores"`
	Scores          model.Scores          `json:"scores"`
	Recommendations model.Recommendations `json:"recommendations"`
	Skipped         []scoring.Issue       `json:"skipped"`
}

// HandleSubmit handles POST /submissions. Answers that reference unknown
// questions or options are skipped, not rejected.
func (h *SubmissionsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	viewer := viewerFrom(r)
	if viewer.UserID == "" {
		h.fail(w, r, op, service.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, op, wrapKind(op, ErrRequestTooLarge, err))
			return
		}
		h.fail(w, r, op, wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.fail(w, r, op, wrapKind(op, ErrBadRequest, err))
		return
	}

	answers := make([]model.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = model.Answer{QuestionID: a.QuestionID, OptionID: a.OptionID}
	}
	out, err := h.deps.Submit(r.Context(), service.Submission{
		ID:      req.SubmissionID,
		UserID:  viewer.UserID,
		Answers: answers,
	})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	skipped := out.Issues
	if skipped == nil {
		skipped = []scoring.Issue{}
	}
	writeJSON(w, http.StatusCreated, submissionResponse{
		ResultID:        out.Result.ID,
		TakenAt:         out.Result.TakenAt.Format(timeFormat),
		RawScores:       out.Result.Scores,
		Scores:          out.Scores,
		Recommendations: out.Result.Recommendations,
		Skipped:         skipped,
	})
}
