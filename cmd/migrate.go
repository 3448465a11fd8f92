package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/okian/careertrack/internal/adapters/repository"
	"github.com/okian/careertrack/pkg/logger"
)

func newMigrateCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), env)
		},
	}
}

func runMigrate(ctx context.Context, env *runtimeEnv) error {
	store, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			env.log.Warn(ctx, "closing store", logger.Error(err))
		}
	}()
	env.log.Info(ctx, "schema is up to date", logger.String("driver", store.Driver()))
	return nil
}

// openStore opens the configured database and applies migrations.
func openStore(ctx context.Context, env *runtimeEnv) (*repository.GormStore, error) {
	cfg := env.cfg
	store, err := repository.Open(ctx,
		repository.WithDriver(cfg.DBDriver),
		repository.WithDSN(cfg.DBDSN),
		repository.WithPool(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.ConnMaxLifetime()),
		repository.WithSlowQueryThreshold(cfg.SlowQueryThreshold()),
		repository.WithLogger(env.log.Named("store")),
	)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
