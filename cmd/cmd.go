// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes a configuration file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter config.toml",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

// authCommand handles OAuth authorization for both providers.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize access to Spotify and YouTube",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthSpotify,
			},
			{
				Name:   "youtube",
				Usage:  "Authenticate with YouTube using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthYouTube,
			},
		},
	}
}

// spotifyCommand handles Spotify library operations.
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify library operations",
		Commands: []*cli.Command{
			{
				Name:  "liked",
				Usage: "List the liked songs that would be migrated",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SpotifyLiked,
			},
		},
	}
}

// migrateCommand handles the migration run and its ledger.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"mig"},
		Usage:   "Migrate liked songs into a YouTube playlist",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the migration, resuming from the progress ledger",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Destination playlist name",
					},
					&cli.StringFlag{
						Name:  "ledger",
						Usage: "Path to the progress ledger",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Worker pool size",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "List pending items without calling YouTube",
					},
				},
				Action: r.MigrateRun,
			},
			{
				Name:  "status",
				Usage: "Show per-status counts from the progress ledger",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "ledger",
						Usage: "Path to the progress ledger",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MigrateStatus,
			},
			{
				Name:  "reset",
				Usage: "Delete the progress ledger so the next run starts fresh",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "ledger",
						Usage: "Path to the progress ledger",
					},
				},
				Action: r.MigrateReset,
			},
		},
	}
}
