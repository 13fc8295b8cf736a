package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// MigrateUp applies pending SQLite migrations.
func (r *Runner) MigrateUp(ctx context.Context, cmd *cli.Command) error {
	config, err := r.sqliteConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	defer db.Close()

	return r.writePlainln(ui.Success("✓ Migrations applied to " + config.Database.Path))
}

// MigrateDown rolls back the most recent SQLite migration.
func (r *Runner) MigrateDown(ctx context.Context, cmd *cli.Command) error {
	config, err := r.sqliteConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Warn("migration rolled back", "path", config.Database.Path)
	return r.writePlainln(ui.Warning("✓ Rolled back latest migration"))
}

func (r *Runner) sqliteConfig(cmd *cli.Command) (*shared.Config, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if config.Storage.Driver != shared.StorageSQLite {
		return nil, fmt.Errorf("%w: migrations need storage driver %q, got %q", shared.ErrInvalidConfig, shared.StorageSQLite, config.Storage.Driver)
	}
	return config, nil
}
