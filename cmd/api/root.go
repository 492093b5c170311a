package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cimillas/table-reservations/internal/config"
	"github.com/cimillas/table-reservations/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

const startupTimeout = 5 * time.Second

type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "api",
		Short:         "Restaurant table reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Postgres DSN (overrides DATABASE_URL)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newRestaurantCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

// runtime holds what every database-backed command needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.databaseURL != "" {
		cfg.DatabaseURL = opts.databaseURL
	}
	return cfg, nil
}

func openRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if cfg.EnvFile != "" {
		logger.Info("loaded env file", zap.String("path", cfg.EnvFile))
	}

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(startupCtx); err != nil {
		pool.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, pool: pool}, nil
}

func (r *runtime) Close() {
	r.pool.Close()
	_ = r.logger.Sync()
}
