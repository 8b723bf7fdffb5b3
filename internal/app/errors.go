package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrEmptyQuestionnaire  = errors.New("no active questions")
	ErrDuplicateSubmission = errors.New("submission already processed")
	ErrInvalidSubmission   = errors.New("invalid submission")
	ErrUnauthenticated     = errors.New("viewer is not authenticated")
	ErrForbidden           = errors.New("viewer may not access this resource")
	ErrNotFound            = errors.New("not found")
)
