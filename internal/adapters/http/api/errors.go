package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/competency/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrRequestTooLarge = errors.New("request body too large")
)

// wrapKind tags err with an operation name and a sentinel kind so callers can
// match on the kind with errors.Is.
func wrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// statusFor maps an error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidSubmission):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrDuplicateSubmission):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, service.ErrEmptyQuestionnaire):
		return http.StatusUnprocessableEntity, "empty_questionnaire"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
