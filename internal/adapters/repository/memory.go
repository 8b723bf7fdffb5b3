package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/pkg/logger"
	"github.com/okian/competency/pkg/metrics"
)

// MemoryStore keeps questions and encoded results in memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	questions map[int64]model.Question
	results   map[string]record
	order     []string // result ids in insertion order
	log       logger.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		questions: make(map[int64]model.Question),
		results:   make(map[string]record),
		log:       o.log,
	}
}

func (s *MemoryStore) ActiveQuestions(ctx context.Context) ([]model.Question, error) {
	defer observe("memory", "active_questions", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Active {
			out = append(out, cloneQuestion(q))
		}
	}
	model.SortQuestions(out)
	return out, nil
}

func (s *MemoryStore) AllQuestions(ctx context.Context) ([]model.Question, error) {
	defer observe("memory", "all_questions", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := lo.MapToSlice(s.questions, func(_ int64, q model.Question) model.Question {
		return cloneQuestion(q)
	})
	model.SortQuestions(out)
	return out, nil
}

func (s *MemoryStore) SaveQuestions(ctx context.Context, questions []model.Question) error {
	defer observe("memory", "save_questions", time.Now())
	if err := validateQuestions(questions); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = cloneQuestion(q)
	}
	return nil
}

func (s *MemoryStore) CountQuestions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

func (s *MemoryStore) SaveResult(ctx context.Context, result model.Result) error {
	defer observe("memory", "save_result", time.Now())
	rec, err := encodeResult(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[rec.id]; exists {
		return ErrDuplicateResult
	}
	s.results[rec.id] = rec
	s.order = append(s.order, rec.id)
	metrics.UpdateStoredResults(len(s.results))
	return nil
}

func (s *MemoryStore) Result(ctx context.Context, id string) (model.Result, error) {
	defer observe("memory", "result", time.Now())
	s.mu.RLock()
	rec, ok := s.results[id]
	s.mu.RUnlock()
	if !ok {
		return model.Result{}, ErrNotFound
	}
	return rec.decode()
}

func (s *MemoryStore) ResultsByUser(ctx context.Context, userID string) ([]model.Result, error) {
	defer observe("memory", "results_by_user", time.Now())
	s.mu.RLock()
	var recs []record
	for i := len(s.order) - 1; i >= 0; i-- {
		if rec := s.results[s.order[i]]; rec.userID == userID {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	// newest insert first among equal timestamps
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].takenAt.After(recs[j].takenAt) })
	return decodeAll(ctx, s.log, recs), nil
}

func (s *MemoryStore) RawScoreBlobs(ctx context.Context) ([][]byte, error) {
	defer observe("memory", "raw_score_blobs", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][]byte, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, append([]byte(nil), s.results[id].scores...))
	}
	return out, nil
}

func (s *MemoryStore) CountResults(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func decodeAll(ctx context.Context, log logger.Logger, recs []record) []model.Result {
	out := make([]model.Result, 0, len(recs))
	for _, rec := range recs {
		r, err := rec.decode()
		if err != nil {
			if errors.Is(err, model.ErrCorruptRecord) {
				metrics.RecordCorruptRecords(1)
			}
			log.Warn(ctx, "skipping unreadable result", logger.String("result_id", rec.id), logger.Error(err))
			continue
		}
		out = append(out, r)
	}
	return out
}

func observe(store, op string, start time.Time) {
	metrics.RecordStoreOperation(store, op, time.Since(start))
}
