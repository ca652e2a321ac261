package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mwilde/topho/internal/formatter"
	"github.com/mwilde/topho/internal/shared"
	"github.com/mwilde/topho/internal/tasks"
)

// AlbumsList prints every album in the Photos library.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: Photos service not initialized, run 'topho auth login'", shared.ErrNotAuthenticated)
	}

	albums, err := r.library.ListAlbums(ctx)
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, true)
	}
	if cmd.Bool("markdown") {
		r.writePlain("%s", string(formatter.AlbumsToMarkdown(albums)))
		return nil
	}

	r.writePlain("%s", string(formatter.AlbumsToText(albums)))
	return nil
}

// AlbumsTidy renames path-titled albums to their last segment and deletes
// empty albums.
func (r *Runner) AlbumsTidy(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	engine, err := r.newEngine()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Tidy(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("tidy failed: %w", err)
	}

	r.writePlainln("")
	r.writePlainHeader("Tidy Complete")
	r.writePlain("Renamed: %d\n", len(result.Renamed))
	for _, rename := range result.Renamed {
		r.writePlain("  %q -> %q\n", rename.OldTitle, rename.NewTitle)
	}
	r.writePlain("Deleted: %d\n", len(result.Deleted))
	for _, album := range result.Deleted {
		r.writePlain("  %q (empty)\n", album.Title)
	}
	if result.Failed > 0 {
		r.writePlain("Failed:  %d\n", result.Failed)
	}
	return nil
}
