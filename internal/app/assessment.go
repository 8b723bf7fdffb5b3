package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/okian/competency/internal/adapters/repository"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/pkg/logger"
	"github.com/okian/competency/pkg/metrics"
)

// Questionnaire returns the active questions labelled with their canonical
// competency, plus the display map covering legacy keys.
func (s *Service) Questionnaire(ctx context.Context) (Questionnaire, error) {
	qs, err := s.questions.ActiveQuestions(ctx)
	if err != nil {
		metrics.RecordError("service", "store")
		return Questionnaire{}, fmt.Errorf("load questions: %w", err)
	}
	metrics.UpdateActiveQuestions(len(qs))
	if len(qs) == 0 {
		return Questionnaire{}, ErrEmptyQuestionnaire
	}

	display := s.catalog.DisplayMap()
	views := lo.Map(qs, func(q model.Question, _ int) QuestionView {
		v := QuestionView{Question: q, ResolvedCompetency: s.catalog.ResolveKey(q.Competency)}
		if comp, ok := display[q.Competency]; ok {
			v.CompetencyName = comp.Name
		}
		return v
	})
	return Questionnaire{Questions: views, Competencies: display}, nil
}

// Evaluate scores answers and builds recommendations without storing
// anything. Answers may reference inactive questions.
func (s *Service) Evaluate(ctx context.Context, answers []model.Answer) (Evaluation, error) {
	qs, err := s.questions.AllQuestions(ctx)
	if err != nil {
		metrics.RecordError("service", "store")
		return Evaluation{}, fmt.Errorf("load questions: %w", err)
	}

	start := time.Now()
	report := s.engine.ComputeProfile(answers, model.NewQuestionSet(qs))
	rec := s.generator.Generate(report.Scores)
	metrics.RecordScoringLatency(time.Since(start))

	for _, issue := range report.Issues {
		metrics.RecordSkippedAnswer(string(issue.Kind))
		s.logger.Debug(ctx, "answer skipped or adjusted",
			logger.String("reason", string(issue.Kind)),
			logger.Int64("question_id", issue.QuestionID),
			logger.Int64("option_id", issue.OptionID),
		)
	}

	return Evaluation{
		Raw:             report.Scores,
		Scores:          s.normalizer.Normalize(report.Scores),
		Recommendations: rec,
		Issues:          report.Issues,
	}, nil
}

// Submit scores a submission and stores it with its recommendations and
// profile snapshot as one record.
func (s *Service) Submit(ctx context.Context, sub Submission) (SubmitOutcome, error) {
	sub.UserID = strings.TrimSpace(sub.UserID)
	if sub.UserID == "" {
		return SubmitOutcome{}, fmt.Errorf("%w: user id is required", ErrInvalidSubmission)
	}

	id := strings.TrimSpace(sub.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordSubmission(metrics.SubmissionDuplicate)
		s.logger.Debug(ctx, "duplicate submission", logger.String("submission_id", id))
		return SubmitOutcome{}, ErrDuplicateSubmission
	}

	eval, err := s.Evaluate(ctx, sub.Answers)
	if err != nil {
		s.deduper.Unrecord(ctx, id)
		metrics.RecordSubmission(metrics.SubmissionFailed)
		return SubmitOutcome{}, err
	}

	takenAt := s.now().UTC()
	result := model.Result{
		ID:              id,
		UserID:          sub.UserID,
		TakenAt:         takenAt,
		Answers:         sub.Answers,
		Scores:          eval.Raw,
		Recommendations: eval.Recommendations,
		Profile:         model.ProfileSnapshot{Scores: eval.Raw, Timestamp: takenAt},
	}
	if err := s.results.SaveResult(ctx, result); err != nil {
		s.deduper.Unrecord(ctx, id)
		if errors.Is(err, repository.ErrDuplicateResult) {
			metrics.RecordSubmission(metrics.SubmissionDuplicate)
			return SubmitOutcome{}, ErrDuplicateSubmission
		}
		metrics.RecordSubmission(metrics.SubmissionFailed)
		metrics.RecordError("service", "store")
		s.logger.Error(ctx, "failed to store result", logger.String("submission_id", id), logger.Error(err))
		return SubmitOutcome{}, fmt.Errorf("store result: %w", err)
	}

	metrics.RecordSubmission(metrics.SubmissionStored)
	s.logger.Info(ctx, "submission stored",
		logger.String("submission_id", id),
		logger.String("user_id", sub.UserID),
		logger.Int("answers", len(sub.Answers)),
		logger.Int("skipped", len(eval.Issues)),
	)
	return SubmitOutcome{Result: result, Scores: eval.Scores, Issues: eval.Issues}, nil
}

// Result returns a stored result to its owner or to a teacher or admin.
// Scores are normalized on read; the stored record is not rewritten.
func (s *Service) Result(ctx context.Context, viewer Viewer, id string) (ResultView, error) {
	if viewer.UserID == "" {
		return ResultView{}, ErrUnauthenticated
	}
	r, err := s.results.Result(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ResultView{}, fmt.Errorf("%w: result %s", ErrNotFound, id)
	}
	if err != nil {
		if errors.Is(err, model.ErrCorruptRecord) {
			metrics.RecordCorruptRecords(1)
		}
		metrics.RecordError("service", "store")
		return ResultView{}, fmt.Errorf("load result: %w", err)
	}
	if err := viewer.canSee(r.UserID); err != nil {
		return ResultView{}, err
	}
	return s.view(r), nil
}

// ResultsByUser returns a user's history, newest first.
func (s *Service) ResultsByUser(ctx context.Context, viewer Viewer, userID string) ([]ResultView, error) {
	if err := viewer.canSee(userID); err != nil {
		return nil, err
	}
	rs, err := s.results.ResultsByUser(ctx, userID)
	if err != nil {
		metrics.RecordError("service", "store")
		return nil, fmt.Errorf("load results: %w", err)
	}
	return lo.Map(rs, func(r model.Result, _ int) ResultView { return s.view(r) }), nil
}

func (s *Service) view(r model.Result) ResultView {
	report := s.normalizer.NormalizeReport(r.Scores)
	metrics.RecordResultRead()
	metrics.RecordDroppedKeys(len(report.Dropped))
	return ResultView{Result: r, Normalized: report.Scores}
}

// Stats aggregates every stored result. Teachers and admins only.
func (s *Service) Stats(ctx context.Context, viewer Viewer) (StatsView, error) {
	if viewer.UserID == "" {
		return StatsView{}, ErrUnauthenticated
	}
	if !viewer.Privileged() {
		return StatsView{}, ErrForbidden
	}

	blobs, err := s.results.RawScoreBlobs(ctx)
	if err != nil {
		metrics.RecordError("service", "store")
		return StatsView{}, fmt.Errorf("load scores: %w", err)
	}

	start := time.Now()
	summary, skipped := s.calculator.AggregateEncoded(blobs)
	metrics.RecordStatsDuration(time.Since(start))
	if skipped > 0 {
		metrics.RecordCorruptRecords(skipped)
		s.logger.Warn(ctx, "skipped corrupt results during aggregation", logger.Int("skipped", skipped))
	}

	return StatsView{
		Competencies: summary,
		Records:      len(blobs) - skipped,
		Skipped:      skipped,
		ComputedAt:   s.now().UTC(),
	}, nil
}

// Recommend rebuilds recommendations for stored or ad hoc raw scores.
func (s *Service) Recommend(raw model.RawScores) model.Recommendations {
	return s.generator.Generate(raw)
}

// Overview returns totals for the admin view.
func (s *Service) Overview(ctx context.Context, viewer Viewer) (Overview, error) {
	if viewer.UserID == "" {
		return Overview{}, ErrUnauthenticated
	}
	if viewer.Role != RoleAdmin {
		return Overview{}, ErrForbidden
	}

	results, err := s.results.CountResults(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("count results: %w", err)
	}
	all, err := s.questions.CountQuestions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("count questions: %w", err)
	}
	active, err := s.questions.ActiveQuestions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("load questions: %w", err)
	}
	return Overview{
		Results:               results,
		Questions:             all,
		ActiveQuestions:       len(active),
		RememberedSubmissions: s.RememberedSubmissions(),
	}, nil
}
