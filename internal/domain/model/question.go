// Package model contains domain models passed between layers.
package model

import (
	"sort"

	"github.com/okian/competency/internal/domain/competency"
)

// Question is a questionnaire item. Competency is a loose reference and may
// hold a legacy alias key.
type Question struct {
	ID         int64          `json:"id"`
	Text       string         `json:"text"`
	Competency competency.Key `json:"competency"`
	Category   string         `json:"category,omitempty"`
	Active     bool           `json:"active"`
	OrderNum   int            `json:"order_num"`
	Options    []Option       `json:"options"`
}

// Option is a scored answer choice owned by a single question.
type Option struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	Score      int    `json:"score"`
	OrderNum   int    `json:"order_num"`
}

// Option returns the option with the given id.
func (q Question) Option(id int64) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Answer is a single submitted choice.
type Answer struct {
	QuestionID int64 `json:"question_id"`
	OptionID   int64 `json:"option_id"`
}

// QuestionSet is an in-memory, read-only question lookup keyed by id.
type QuestionSet struct {
	byID map[int64]Question
}

// NewQuestionSet indexes questions by id. Later duplicates win.
func NewQuestionSet(questions []Question) *QuestionSet {
	s := &QuestionSet{byID: make(map[int64]Question, len(questions))}
	for _, q := range questions {
		s.byID[q.ID] = q
	}
	return s
}

// Question returns the question with the given id.
func (s *QuestionSet) Question(id int64) (Question, bool) {
	q, ok := s.byID[id]
	return q, ok
}

// Len returns the number of indexed questions.
func (s *QuestionSet) Len() int { return len(s.byID) }

// SortQuestions orders questions and their options by order number, then id.
func SortQuestions(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].OrderNum != questions[j].OrderNum {
			return questions[i].OrderNum < questions[j].OrderNum
		}
		return questions[i].ID < questions[j].ID
	})
	for _, q := range questions {
		sort.SliceStable(q.Options, func(i, j int) bool {
			if q.Options[i].OrderNum != q.Options[j].OrderNum {
				return q.Options[i].OrderNum < q.Options[j].OrderNum
			}
			return q.Options[i].ID < q.Options[j].ID
		})
	}
}
