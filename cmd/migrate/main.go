package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"bookreview/db"
	"bookreview/internal/config"
	"bookreview/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "apply and inspect database migrations",
		SilenceUsage: true,
	}

	root.AddCommand(
		dbCommand("up", "apply all pending migrations", goose.Up),
		dbCommand("down", "roll back the latest migration", goose.Down),
		dbCommand("status", "print the state of every migration", goose.Status),
		createCommand(),
	)
	return root
}

// dbCommand runs fn against the embedded migrations.
func dbCommand(use, short string, fn func(*sql.DB, string, ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

			sqlDB, closeDB, err := openDB(cmd.Context(), cfg.DBDSN)
			if err != nil {
				return err
			}
			defer closeDB()

			goose.SetBaseFS(db.Migrations)
			defer goose.SetBaseFS(nil)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			if err := fn(sqlDB, db.MigrationsDir); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			logging.Info().Str("command", use).Str("dsn", config.RedactDSN(cfg.DBDSN)).Msg("migrations done")
			return nil
		},
	}
}

func createCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "write a new empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goose.SetBaseFS(nil)
			if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
				return fmt.Errorf("create migration: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", migrationsDir(), "directory the migration is written to")
	return cmd
}

func openDB(ctx context.Context, dsn string) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	return sqlDB, func() {
		_ = sqlDB.Close()
		pool.Close()
	}, nil
}
