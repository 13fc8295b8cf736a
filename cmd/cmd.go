// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "Owner username",
		Required: true,
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    "Playlist name",
		Required: true,
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API until interrupted",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// setupCommand prepares config, data directories and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file, data and upload directories, and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// migrateCommand applies or rolls back SQLite migrations
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "SQLite schema migrations",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply pending migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateUp,
			},
			{
				Name:   "down",
				Usage:  "Roll back the latest migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.MigrateDown,
			},
		},
	}
}

// usersCommand inspects registered users
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Registered user operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List registered users",
				Flags:  []cli.Flag{configFlag(), jsonFlag()},
				Action: r.UsersList,
			},
		},
	}
}

// playlistsCommand inspects and exports playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List a user's playlists with track counts",
				Flags:  []cli.Flag{configFlag(), userFlag(), jsonFlag()},
				Action: r.PlaylistsList,
			},
			{
				Name:   "show",
				Usage:  "Show the tracks of a playlist",
				Flags:  []cli.Flag{configFlag(), userFlag(), nameFlag(), jsonFlag()},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					nameFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to <name>.<format>)",
					},
				},
				Action: r.PlaylistsExport,
			},
			{
				Name:  "export-all",
				Usage: "Export every playlist of a user into a directory with a manifest",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt or json",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (defaults to <user>_export_<epoch>)",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent writers (max 10)",
						Value:   tasks.DefaultWorkers,
					},
				},
				Action: r.PlaylistsExportAll,
			},
		},
	}
}
