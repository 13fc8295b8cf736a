package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, migrateCommand, usersCommand, playlistsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the file named by --config when the flag is set, else the config the runner was built with.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if !cmd.IsSet("config") {
		return r.config, nil
	}

	config, err := shared.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	r.config = config
	shared.SetLogLevel(r.logger, config.Log.Level)
	return config, nil
}

// openStores opens the storage backend selected by config. Callers must Close the result.
func (r *Runner) openStores(ctx context.Context, config *shared.Config) (*repositories.Stores, error) {
	stores, err := repositories.Open(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	r.logger.Debug("storage opened", "driver", config.Storage.Driver)
	return stores, nil
}

// playlistService builds a playlist service over stores for the inspection commands.
func (r *Runner) playlistService(stores *repositories.Stores) *services.PlaylistService {
	return services.NewPlaylistService(stores.Owners, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(text string) error {
	return r.writePlain("%s\n", text)
}
