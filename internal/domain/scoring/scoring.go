// Package scoring turns a set of submitted answers into per-competency
// percentages.
package scoring

import (
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
)

// QuestionLookup resolves question ids. Implementations must be safe for
// concurrent reads.
type QuestionLookup interface {
	Question(id int64) (model.Question, bool)
}

// IssueKind classifies an answer that was skipped or adjusted during scoring.
type IssueKind string

// Issue kinds.
const (
	IssueUnknownQuestion   IssueKind = "unknown_question"
	IssueUnknownOption     IssueKind = "unknown_option"
	IssueUnknownCompetency IssueKind = "unknown_competency"
	// IssueScoreOutOfRange marks an answer whose option score lies outside
	// [0, max]. The answer still counts with its score clamped.
	IssueScoreOutOfRange IssueKind = "score_out_of_range"
)

// Issue describes one skipped or adjusted answer.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	QuestionID int64     `json:"question_id"`
	OptionID   int64     `json:"option_id"`
	Competency string    `json:"competency,omitempty"`
}

// Report is the outcome of ComputeProfile. Scores always holds one entry per
// current competency.
type Report struct {
	Scores model.RawScores
	Issues []Issue
}

// Engine computes competency profiles. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	catalog        *competency.Catalog
	maxOptionScore int
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(catalog *competency.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:        catalog,
		maxOptionScore: DefaultMaxOptionScore,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxOptionScore returns the configured per-question maximum.
func (e *Engine) MaxOptionScore() int { return e.maxOptionScore }

// ComputeProfile scores answers against their questions. Answers whose
// question or option cannot be found, or whose competency resolves to no
// current key, are skipped and reported as issues. Option scores outside
// [0, max] are clamped and reported, so every score stays within [0,100]. Each answered question
// adds the option score to its competency sum and the configured maximum to
// its competency max; the result is round(100*sum/max, 1), or 0 when no
// answer touched the competency.
func (e *Engine) ComputeProfile(answers []model.Answer, questions QuestionLookup) Report {
	n := e.catalog.Len()
	sums := make([]float64, n)
	maxes := make([]float64, n)
	var issues []Issue

	for _, a := range answers {
		q, ok := questions.Question(a.QuestionID)
		if !ok {
			issues = append(issues, Issue{Kind: IssueUnknownQuestion, QuestionID: a.QuestionID, OptionID: a.OptionID})
			continue
		}
		opt, ok := q.Option(a.OptionID)
		if !ok {
			issues = append(issues, Issue{Kind: IssueUnknownOption, QuestionID: a.QuestionID, OptionID: a.OptionID})
			continue
		}
		idx, ok := e.catalog.Index(e.catalog.ResolveKey(q.Competency))
		if !ok {
			issues = append(issues, Issue{
				Kind:       IssueUnknownCompetency,
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
				Competency: string(q.Competency),
			})
			continue
		}
		score := opt.Score
		if score < 0 || score > e.maxOptionScore {
			issues = append(issues, Issue{
				Kind:       IssueScoreOutOfRange,
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
				Competency: string(q.Competency),
			})
			score = min(max(score, 0), e.maxOptionScore)
		}
		sums[idx] += float64(score)
		maxes[idx] += float64(e.maxOptionScore)
	}

	scores := make(model.RawScores, n)
	for i, key := range e.catalog.Keys() {
		if maxes[i] > 0 {
			scores[string(key)] = model.Round1(100 * sums[i] / maxes[i])
		} else {
			scores[string(key)] = 0
		}
	}
	return Report{Scores: scores, Issues: issues}
}
