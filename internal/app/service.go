// Package service wires the assessment domain to storage and exposes the
// operations the HTTP API and CLI need.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/competency/internal/adapters/repository"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/dedupe"
	"github.com/okian/competency/internal/domain/normalize"
	"github.com/okian/competency/internal/domain/recommend"
	"github.com/okian/competency/internal/domain/scoring"
	"github.com/okian/competency/internal/domain/stats"
	"github.com/okian/competency/pkg/logger"
	"github.com/okian/competency/pkg/metrics"
)

// Service implements the assessment operations.
type Service struct {
	mu sync.RWMutex

	catalog    *competency.Catalog
	questions  repository.QuestionStore
	results    repository.ResultStore
	engine     *scoring.Engine
	normalizer *normalize.Normalizer
	generator  *recommend.Generator
	calculator *stats.Calculator
	deduper    dedupe.Deduper

	maxOptionScore int
	dedupeSize     int
	seedQuestions  bool
	now            func() time.Time

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the competency catalog. Defaults to competency.Default().
func WithCatalog(c *competency.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithQuestionStore sets where questions are read from.
func WithQuestionStore(q repository.QuestionStore) Option {
	return func(s *Service) {
		if q != nil {
			s.questions = q
		}
	}
}

// WithResultStore sets where results are written.
func WithResultStore(r repository.ResultStore) Option {
	return func(s *Service) {
		if r != nil {
			s.results = r
		}
	}
}

// WithStore uses one store for both questions and results.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.questions = st
			s.results = st
		}
	}
}

// WithMaxOptionScore sets the per-question maximum used by scoring.
func WithMaxOptionScore(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOptionScore = n
		}
	}
}

// WithDedupeSize bounds the submission id cache. Zero or less keeps all ids.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		s.dedupeSize = n
	}
}

// WithSeedQuestions makes Start write the built-in questionnaire into an
// empty question store.
func WithSeedQuestions(seed bool) Option {
	return func(s *Service) {
		s.seedQuestions = seed
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Without store options it keeps everything in
// memory.
func New(opts ...Option) *Service {
	s := &Service{
		maxOptionScore: scoring.DefaultMaxOptionScore,
		dedupeSize:     dedupe.DefaultMaxSize,
		now:            time.Now,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.catalog == nil {
		s.catalog = competency.Default()
	}
	if s.questions == nil || s.results == nil {
		mem := repository.NewMemoryStore(repository.WithLogger(s.logger))
		if s.questions == nil {
			s.questions = mem
		}
		if s.results == nil {
			s.results = mem
		}
	}

	s.engine = scoring.NewEngine(s.catalog, scoring.WithMaxOptionScore(s.maxOptionScore))
	s.normalizer = normalize.New(s.catalog)
	s.generator = recommend.New(s.catalog, recommend.WithNormalizer(s.normalizer))
	s.calculator = stats.New(s.normalizer)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start seeds the questionnaire when configured and primes gauges. It is
// safe to call more than once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.seedQuestions {
		seeded, err := repository.SeedIfEmpty(ctx, s.questions)
		if err != nil {
			metrics.RecordError("service", "seed")
			return err
		}
		if seeded {
			s.logger.Info(ctx, "seeded default questionnaire",
				logger.Int("questions", len(repository.DefaultQuestions())))
		}
	}
	if n, err := s.results.CountResults(ctx); err == nil {
		metrics.UpdateStoredResults(n)
	}

	s.started = true
	s.logger.Info(ctx, "assessment service started",
		logger.Int("competencies", s.catalog.Len()),
		logger.Int("max_option_score", s.maxOptionScore),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop marks the service stopped. Stores are owned by the caller.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "assessment service stopped")
}

// Started reports whether Start has completed.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Catalog returns the competency catalog in use.
func (s *Service) Catalog() *competency.Catalog { return s.catalog }

// RememberedSubmissions returns how many submission ids are kept for dedupe.
func (s *Service) RememberedSubmissions() int64 { return s.deduper.Size() }
