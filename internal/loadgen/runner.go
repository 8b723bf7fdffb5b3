package loadgen

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/competency/pkg/logger"
)

// Run checks the service, answers its questionnaire once per synthetic
// student and reads back the aggregate statistics.
func Run(ctx context.Context, cfg Config, opts ...Option) (Report, error) {
	cfg = cfg.withDefaults()
	o := options{client: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	c := &client{http: o.client, baseURL: cfg.BaseURL}
	log := o.logger

	start := time.Now()
	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("users", cfg.Users),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	if err := c.health(ctx); err != nil {
		return Report{}, err
	}

	questions, err := c.questions(ctx, cfg.Teacher)
	if err != nil {
		return Report{}, fmt.Errorf("fetch questionnaire: %w", err)
	}
	if len(questions) == 0 {
		return Report{}, ErrNoQuestions
	}

	report := Report{Questions: len(questions)}
	subs := generate(cfg, questions)
	if err := submitAll(ctx, c, cfg.Workers, subs, &report); err != nil {
		return report, err
	}

	report.Stats, err = c.stats(ctx, cfg.Teacher)
	if err != nil {
		return report, fmt.Errorf("fetch stats: %w", err)
	}
	report.Duration = time.Since(start)

	log.Info(ctx, "load run finished",
		logger.Int("questions", report.Questions),
		logger.Int("submitted", report.Submitted),
		logger.Int("stored", report.Stored),
		logger.Int("duplicate", report.Duplicate),
		logger.Int("failed", report.Failed),
		logger.Int("competencies", len(report.Stats)),
		logger.Duration("duration", report.Duration),
		logger.Float64("submissionsPerSecond", report.Throughput()),
	)
	return report, nil
}

type userSubmission struct {
	userID string
	sub    submission
}

// generate picks one random option per question for every user.
func generate(cfg Config, questions []question) []userSubmission {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	out := make([]userSubmission, cfg.Users)
	for i := range out {
		answers := make([]answer, 0, len(questions))
		for _, q := range questions {
			if len(q.Options) == 0 {
				continue
			}
			opt := q.Options[rng.IntN(len(q.Options))]
			answers = append(answers, answer{QuestionID: q.ID, OptionID: opt.ID})
		}
		out[i] = userSubmission{
			userID: uuid.NewString(),
			sub:    submission{SubmissionID: uuid.NewString(), Answers: answers},
		}
	}
	return out
}

// submitAll posts every submission with at most workers in flight. Transport
// failures are counted, only cancellation aborts the run.
func submitAll(ctx context.Context, c *client, workers int, subs []userSubmission, report *Report) error {
	var submitted, stored, duplicate, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, us := range subs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, err := c.submit(gctx, us.userID, us.sub)
			submitted.Add(1)
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				failed.Add(1)
				return err
			case err != nil:
				failed.Add(1)
			case status == http.StatusCreated:
				stored.Add(1)
			case status == http.StatusConflict:
				duplicate.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	report.Submitted = int(submitted.Load())
	report.Stored = int(stored.Load())
	report.Duplicate = int(duplicate.Load())
	report.Failed = int(failed.Load())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}
