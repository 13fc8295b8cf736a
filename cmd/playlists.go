package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

type playlistSummary struct {
	Name   string `json:"name"`
	Tracks int    `json:"tracks"`
}

// PlaylistsList prints the playlists of --user with track counts.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return err
	}
	defer stores.Close()

	user := cmd.String("user")
	playlists, err := r.playlistService(stores).ListPlaylists(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		summaries := make([]playlistSummary, 0, len(playlists))
		for _, p := range playlists {
			summaries = append(summaries, playlistSummary{Name: p.Name, Tracks: len(p.Videos)})
		}
		return r.writeJSON(summaries, true)
	}

	if len(playlists) == 0 {
		return r.writePlainln(ui.Warning(fmt.Sprintf("No playlists for %s", user)))
	}
	r.writePlainln(ui.Title(fmt.Sprintf("Playlists of %s (%d)", user, len(playlists))))
	return r.writePlainln(ui.PlaylistsTable(playlists))
}

// PlaylistsShow prints the tracks of one playlist.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return err
	}
	defer stores.Close()

	playlist, err := r.playlistService(stores).GetPlaylist(ctx, cmd.String("user"), cmd.String("name"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlainln(ui.Title(fmt.Sprintf("%s (%d tracks)", playlist.Name, len(playlist.Videos))))
	return r.writePlainln(ui.VideosTable(playlist.Videos))
}

// PlaylistsExport writes one playlist to a file in the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return err
	}
	defer stores.Close()

	playlist, err := r.playlistService(stores).GetPlaylist(ctx, cmd.String("user"), cmd.String("name"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(playlist, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "playlist", playlist.Name, "format", format, "path", path)
	return r.writePlain("%s %s\n", ui.Success("✓ Exported to"), path)
}

// PlaylistsExportAll writes every playlist of --user into one directory, reporting progress as files land.
func (r *Runner) PlaylistsExportAll(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	stores, err := r.openStores(ctx, config)
	if err != nil {
		return err
	}
	defer stores.Close()

	service := r.playlistService(stores)
	owned, err := service.ListPlaylists(ctx, cmd.String("user"))
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}
	exporter := tasks.NewExporter(service, r.logger)

	// fetch + one per playlist + manifest, so no line is ever dropped
	progress := make(chan tasks.ProgressUpdate, len(owned)+3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			if u.Phase != tasks.ExportPlaylist {
				continue
			}
			if res, ok := u.Data.(tasks.PlaylistExportResult); ok && !res.Success {
				r.writePlainln(ui.Failure(u.Message))
				continue
			}
			r.writePlainln(u.Message)
		}
	}()

	result, err := exporter.BulkExport(ctx, progress, cmd.String("user"), tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	summary := fmt.Sprintf("✓ Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlainln(ui.Warning(summary))
	} else {
		r.writePlainln(ui.Success(summary))
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}
