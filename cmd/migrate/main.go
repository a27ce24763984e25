// Package main provides the database migration tool for PostgreSQL
// deployments. SQLite deployments auto-migrate on startup and do not
// need this tool.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/infrastructure/config"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/migrations"
	"github.com/mealsmith/v2/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cli.Command{
		Name:  "migrate",
		Usage: "Manage the Mealsmith database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a Mealsmith config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrator(func(m *migrations.Migrator, cmd *cli.Command) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: withMigrator(func(m *migrations.Migrator, cmd *cli.Command) error {
					return m.Down()
				}),
			},
			{
				Name:  "reset",
				Usage: "Roll back all migrations",
				Action: withMigrator(func(m *migrations.Migrator, cmd *cli.Command) error {
					return m.Reset()
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrator(func(m *migrations.Migrator, cmd *cli.Command) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Printf("version=%d dirty=%v\n", version, dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "Force the schema version without running migrations",
				ArgsUsage: "<version>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "version",
						Usage:    "Schema version to record",
						Required: true,
					},
				},
				Action: withMigrator(func(m *migrations.Migrator, cmd *cli.Command) error {
					return m.Force(int(cmd.Int("version")))
				}),
			},
		},
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withMigrator opens the configured database, builds a migrator, runs
// the wrapped action, and cleans up.
func withMigrator(action func(m *migrations.Migrator, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.Root().String("config"))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
		}

		log, err := logger.New(logger.Config{
			Level:  cfg.App.LogLevel,
			Format: "console",
		})
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync()

		db, err := sql.Open("pgx", cfg.GetDSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		migrator, err := migrations.New(db, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := migrator.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()

		return action(migrator, cmd)
	}
}
