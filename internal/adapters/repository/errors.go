package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound        = errors.New("result not found")
	ErrDuplicateResult = errors.New("result already exists")
	ErrInvalidQuestion = errors.New("invalid question")
	ErrOpenStore       = errors.New("open store")
)
