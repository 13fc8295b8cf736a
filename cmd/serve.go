package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/sessions"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// app is everything a running API owns.
type app struct {
	server  *server.Server
	closers []io.Closer
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// buildApp wires storage, sessions, services and the HTTP server from config.
func (r *Runner) buildApp(ctx context.Context, config *shared.Config) (*app, error) {
	a := &app{}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, stores)

	store, err := sessions.Open(ctx, config.Sessions)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	if err := os.MkdirAll(config.Server.UploadDir, 0755); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	metrics := server.NewMetrics()
	accounts := services.NewAccountService(stores.Users, store, shared.WithLogger(r.logger, "component", "accounts"), metrics)
	playlists := services.NewPlaylistService(stores.Owners, shared.WithLogger(r.logger, "component", "playlists"), services.WithRecorder(metrics))

	a.server = server.New(config.Server, server.Deps{
		Accounts:  accounts,
		Playlists: playlists,
		Metrics:   metrics,
		Limiter:   server.NewLoginLimiter(config.Auth.LoginPerMinute, config.Auth.LoginBurst),
		Logger:    shared.WithLogger(r.logger, "component", "http"),
	})

	r.logger.Info("application ready",
		"storage", config.Storage.Driver,
		"sessions", config.Sessions.Driver,
		"uploads", config.Server.UploadDir,
	)
	return a, nil
}

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := r.buildApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	r.logger.Info("server stopped")
	return nil
}

