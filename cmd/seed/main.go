package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bookreview/internal/config"
	"bookreview/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "create users and catalog data",
		SilenceUsage: true,
	}
	root.AddCommand(superuserCommand(), demoCommand(), importCommand())
	return root
}

// env is what every seed command needs: configuration and a live pool.
type env struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", config.RedactDSN(cfg.DBDSN), err)
	}
	return &env{cfg: cfg, pool: pool}, nil
}

func (e *env) Close() { e.pool.Close() }
