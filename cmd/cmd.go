// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand prepares config and the run history database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and run history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Google authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Google account authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Google using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show whether a saved token exists and is valid",
				Action: r.AuthStatus,
			},
		},
	}
}

// syncCommand runs the Drive to Photos sync
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync a Drive folder tree into Photos albums",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "root",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "ui",
				Usage: "Show progress in an interactive terminal view",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording this run in the history database",
			},
		},
		Action: r.SyncRun,
	}
}

// albumsCommand inspects and tidies Photos albums
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"alb"},
		Usage:   "Photos album operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all albums in the Photos library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output a markdown table",
					},
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "tidy",
				Usage: "Rename path-titled albums and delete empty ones",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AlbumsTidy,
			},
		},
	}
}

// ledgerCommand inspects and edits the transfer ledger
func ledgerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Transfer ledger operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print imported and skipped entries",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.StringFlag{
						Name:    "export",
						Aliases: []string{"o"},
						Usage:   "Write CSV to this file instead of printing",
					},
				},
				Action: r.LedgerShow,
			},
			{
				Name:  "clear",
				Usage: "Remove a file ID from the ledger so the next sync retries it",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.LedgerClear,
			},
		},
	}
}

// historyCommand shows past sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Show past sync runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by run status (running, completed, failed)",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Filter by root folder name",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to show",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}
