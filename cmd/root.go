package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/competency/internal/adapters/repository"
	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/config"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/pkg/logger"
)

// cli carries state shared by subcommands once the root has loaded config.
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "competency",
		Short:         "Competency assessment service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (overrides $"+config.EnvFile+")")

	root.AddCommand(
		newServeCmd(c),
		newSeedCmd(c),
		newScoreCmd(c),
		newLoadgenCmd(c),
	)
	return root
}

// init loads configuration and sets up the global logger on stderr.
func (c *cli) init(cmd *cobra.Command) error {
	if c.configPath != "" {
		if err := os.Setenv(config.EnvFile, c.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := logger.InitWithWriter(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog(cfg *config.Config) (*competency.Catalog, error) {
	if cfg.CatalogFile == "" {
		return competency.Default(), nil
	}
	return competency.LoadFile(cfg.CatalogFile)
}

// openStore opens the configured storage backend. The caller closes it.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return repository.OpenSQLite(ctx, cfg.DatabasePath, repository.WithLogger(log))
	default:
		return repository.NewMemoryStore(repository.WithLogger(log)), nil
	}
}

// newService wires a service from configuration. The returned close func
// releases the store.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, func(), error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc := service.New(
		service.WithLogger(log),
		service.WithCatalog(catalog),
		service.WithStore(store),
		service.WithMaxOptionScore(cfg.MaxOptionScore),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithSeedQuestions(cfg.SeedQuestions),
	)
	closeFn := func() {
		if err := store.Close(); err != nil {
			log.Error(context.Background(), "failed to close store", logger.Error(err))
		}
	}
	return svc, closeFn, nil
}
