package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/competency/internal/adapters/repository"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/internal/loadgen"
	"github.com/okian/competency/pkg/logger"
)

func newSeedCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in questionnaire into an empty store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStore(ctx, c.cfg, logger.Get())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			seeded, err := repository.SeedIfEmpty(ctx, store)
			if err != nil {
				return err
			}
			n, err := store.CountQuestions(ctx)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d questions\n", n)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "store already has %d questions\n", n)
			}
			return nil
		},
	}
}

// scoreInput is the file format read by the score command.
type scoreInput struct {
	Answers []model.Answer `json:"answers"`
}

func newScoreCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "score <answers.json>",
		Short: "Score a set of answers and print the profile and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read answers: %w", err)
			}
			var in scoreInput
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("decode answers: %w", err)
			}

			ctx := cmd.Context()
			svc, closeStore, err := newService(ctx, c.cfg, logger.Get())
			if err != nil {
				return err
			}
			defer closeStore()
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			eval, err := svc.Evaluate(ctx, in.Answers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(eval)
		},
	}
}

func newLoadgenCmd(_ *cli) *cobra.Command {
	var cfg loadgen.Config
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Submit synthetic questionnaires to a running service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := loadgen.Run(cmd.Context(), cfg, loadgen.WithLogger(logger.Get()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "questions:  %d\n", report.Questions)
			fmt.Fprintf(out, "submitted:  %d\n", report.Submitted)
			fmt.Fprintf(out, "stored:     %d\n", report.Stored)
			fmt.Fprintf(out, "duplicate:  %d\n", report.Duplicate)
			fmt.Fprintf(out, "failed:     %d\n", report.Failed)
			fmt.Fprintf(out, "duration:   %s (%.1f/s)\n", report.Duration.Round(time.Millisecond), report.Throughput())
			for _, key := range slices.Sorted(maps.Keys(report.Stats)) {
				s := report.Stats[key]
				fmt.Fprintf(out, "%-24s mean=%.1f median=%.1f std=%.1f n=%d\n", key, s.Mean, s.Median, s.Std, s.Count)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", loadgen.DefaultBaseURL, "Base URL of the service")
	f.IntVar(&cfg.Users, "users", loadgen.DefaultUsers, "Number of synthetic students")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", loadgen.DefaultTimeout, "HTTP request timeout")
	f.StringVar(&cfg.Teacher, "teacher", loadgen.DefaultTeacher, "User id used to read statistics")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Answer picker seed (0 = random)")
	return cmd
}
