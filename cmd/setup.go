package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, the data and upload directories, and applies migrations for SQLite.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
		config = shared.DefaultConfig()
	}
	r.config = config

	for _, dir := range []string{config.Storage.DataDir, config.Server.UploadDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		r.logger.Debug("directory ready", "path", dir)
	}

	if config.Storage.Driver == shared.StorageSQLite {
		r.logger.Info("initializing database", "path", config.Database.Path)

		db, err := shared.OpenDatabase(ctx, config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		r.logger.Info("migrations applied", "path", config.Database.Path)
	}

	r.writePlainln(ui.Success("✓ Setup complete"))
	r.writePlain("Config:  %s\n", configPath)
	r.writePlain("Storage: %s\n", config.Storage.Driver)
	r.writePlainln(ui.Hint("Run 'mixtape serve' to start the API"))
	return nil
}
