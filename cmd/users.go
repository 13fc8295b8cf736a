package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/sessions"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// UsersList prints every registered user without passwords.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return err
	}
	defer stores.Close()

	accounts := services.NewAccountService(stores.Users, sessions.NewMemoryStore(), r.logger, nil)
	users, err := accounts.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlainln(ui.Warning("No registered users"))
	}
	r.writePlainln(ui.Title(fmt.Sprintf("Users (%d)", len(users))))
	return r.writePlainln(ui.UsersTable(users))
}
