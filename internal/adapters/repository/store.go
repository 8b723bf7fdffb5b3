// Package repository persists questionnaires and test results.
package repository

import (
	"context"

	"github.com/okian/competency/internal/domain/model"
)

// QuestionStore provides read/write access to the questionnaire.
type QuestionStore interface {
	// ActiveQuestions returns active questions ordered by order number, with
	// their options ordered the same way.
	ActiveQuestions(ctx context.Context) ([]model.Question, error)
	// AllQuestions returns every question, active or not.
	AllQuestions(ctx context.Context) ([]model.Question, error)
	// SaveQuestions inserts or replaces questions together with their options.
	SaveQuestions(ctx context.Context, questions []model.Question) error
	// CountQuestions returns the number of stored questions.
	CountQuestions(ctx context.Context) (int, error)
}

// ResultStore provides read/write access to submitted test results.
type ResultStore interface {
	// SaveResult persists a result as one atomic unit.
	// Returns ErrDuplicateResult if the id already exists.
	SaveResult(ctx context.Context, result model.Result) error
	// Result returns a stored result. Returns ErrNotFound if unknown and an
	// error wrapping model.ErrCorruptRecord if it cannot be decoded.
	Result(ctx context.Context, id string) (model.Result, error)
	// ResultsByUser returns a user's results, newest first. Corrupt rows are
	// skipped.
	ResultsByUser(ctx context.Context, userID string) ([]model.Result, error)
	// RawScoreBlobs returns the stored raw score blobs of every result,
	// undecoded, for aggregation.
	RawScoreBlobs(ctx context.Context) ([][]byte, error)
	// CountResults returns the number of stored results.
	CountResults(ctx context.Context) (int, error)
}

// Store is the combined persistence contract.
type Store interface {
	QuestionStore
	ResultStore
	Close() error
}
