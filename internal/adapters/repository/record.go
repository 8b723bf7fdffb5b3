package repository

import (
	"fmt"
	"time"

	"github.com/okian/competency/internal/domain/model"
)

// record is the stored shape of a result: identity columns plus encoded
// text blobs.
type record struct {
	id              string
	userID          string
	takenAt         time.Time
	answers         []byte
	scores          []byte
	recommendations []byte
	profile         []byte
}

func encodeResult(r model.Result) (record, error) {
	rec := record{id: r.ID, userID: r.UserID, takenAt: r.TakenAt.UTC()}
	var err error
	if rec.answers, err = model.EncodeAnswers(r.Answers); err != nil {
		return record{}, fmt.Errorf("encode answers: %w", err)
	}
	if rec.scores, err = model.EncodeRawScores(r.Scores); err != nil {
		return record{}, fmt.Errorf("encode scores: %w", err)
	}
	if rec.recommendations, err = model.EncodeRecommendations(r.Recommendations); err != nil {
		return record{}, fmt.Errorf("encode recommendations: %w", err)
	}
	if rec.profile, err = model.EncodeProfile(r.Profile); err != nil {
		return record{}, fmt.Errorf("encode profile: %w", err)
	}
	return rec, nil
}

func (rec record) decode() (model.Result, error) {
	r := model.Result{ID: rec.id, UserID: rec.userID, TakenAt: rec.takenAt}
	var err error
	if r.Answers, err = model.DecodeAnswers(rec.answers); err != nil {
		return model.Result{}, fmt.Errorf("result %s answers: %w", rec.id, err)
	}
	if r.Scores, err = model.DecodeRawScores(rec.scores); err != nil {
		return model.Result{}, fmt.Errorf("result %s scores: %w", rec.id, err)
	}
	if r.Recommendations, err = model.DecodeRecommendations(rec.recommendations); err != nil {
		return model.Result{}, fmt.Errorf("result %s recommendations: %w", rec.id, err)
	}
	// rows written before profiles were stored carry no snapshot
	if len(rec.profile) == 0 {
		r.Profile = model.ProfileSnapshot{Scores: r.Scores, Timestamp: r.TakenAt}
		return r, nil
	}
	if r.Profile, err = model.DecodeProfile(rec.profile); err != nil {
		return model.Result{}, fmt.Errorf("result %s profile: %w", rec.id, err)
	}
	return r, nil
}

func validateQuestions(questions []model.Question) error {
	for _, q := range questions {
		if q.ID <= 0 {
			return fmt.Errorf("%w: question id %d", ErrInvalidQuestion, q.ID)
		}
		if q.Competency == "" {
			return fmt.Errorf("%w: question %d has no competency", ErrInvalidQuestion, q.ID)
		}
		for _, o := range q.Options {
			if o.ID <= 0 {
				return fmt.Errorf("%w: question %d option id %d", ErrInvalidQuestion, q.ID, o.ID)
			}
		}
	}
	return nil
}

func cloneQuestion(q model.Question) model.Question {
	q.Options = append([]model.Option(nil), q.Options...)
	for i := range q.Options {
		q.Options[i].QuestionID = q.ID
	}
	return q
}
