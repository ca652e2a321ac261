package main

import (
	"context"
	"errors"
	"os"

	"github.com/mwilde/topho/internal/services"
	"github.com/mwilde/topho/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var source services.SourceStore
	var library services.Library

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	if token, err := runner.loadToken(); err == nil {
		client := googleClient(ctx, config, token)
		rate := config.Sync.RateLimit
		source = services.NewDriveService("", client, rate)
		library = services.NewPhotosService("", client, rate)
	}

	runner.source = source
	runner.library = library

	app := &cli.Command{
		Name:     "topho",
		Usage:    "Sync Google Drive folders into Google Photos albums",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
