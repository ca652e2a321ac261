package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/repositories"
	"github.com/mwilde/topho/internal/shared"
	"github.com/mwilde/topho/internal/tasks"
	"github.com/mwilde/topho/internal/ui"
)

// SyncRun walks the named Drive folder and uploads its media to Photos
// albums. The root folder name comes from the positional argument, or from
// an interactive prompt when the argument is omitted.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	root, err := r.resolveRootName(cmd)
	if err != nil {
		return err
	}

	engine, err := r.newEngine()
	if err != nil {
		return err
	}

	if cmd.Bool("ui") {
		return r.runSyncTUI(ctx, engine, root)
	}
	return r.runSyncPlain(ctx, cmd, engine, root)
}

// resolveRootName reads the root folder name from the command argument or
// prompts for it on the runner's input.
func (r *Runner) resolveRootName(cmd *cli.Command) (string, error) {
	if root := cmd.StringArg("root"); root != "" {
		return root, nil
	}

	r.writePlain("Root folder name: ")
	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read root folder name: %w", err)
		}
		return "", fmt.Errorf("%w: no root folder name given", shared.ErrInvalidArgument)
	}

	root := strings.TrimSpace(scanner.Text())
	if root == "" {
		return "", fmt.Errorf("%w: root folder name cannot be empty", shared.ErrInvalidArgument)
	}
	return root, nil
}

// runSyncPlain drives the engine while printing progress lines, then records
// the run in history unless disabled.
func (r *Runner) runSyncPlain(ctx context.Context, cmd *cli.Command, engine *tasks.ImportEngine, root string) error {
	run := r.beginHistory(cmd, root)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Run(ctx, progress, root)
	close(progress)
	<-done

	r.finishHistory(run, result, err)

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlainln("")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Root:     %s\n", result.Root)
	r.writePlain("Uploaded: %d\n", result.Uploaded)
	r.writePlain("Reused:   %d\n", result.Reused)
	r.writePlain("Skipped:  %d\n", result.Skipped)
	r.writePlain("Failed:   %d\n", result.Failed)
	r.writePlain("Albums:   %d\n", result.Albums)
	if result.Failed > 0 && r.config.Sync.MissLog != "" {
		r.writePlain("See %s for details on failed and skipped items.\n", r.config.Sync.MissLog)
	}
	return nil
}

// runSyncTUI runs the sync inside the bubbletea view, redirecting logs to a
// file so they do not corrupt the terminal.
func (r *Runner) runSyncTUI(ctx context.Context, engine *tasks.ImportEngine, root string) error {
	fileLogger, err := shared.NewFileLogger("logs/topho.log")
	if err != nil {
		r.logger.Warnf("failed to create file logger, logs disabled during TUI %v", err)
	} else {
		r.SetLogger(fileLogger)
	}

	model := ui.NewModel(ctx, engine, root)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// beginHistory creates a running history row, or returns nil when history is
// disabled or the database is unavailable. History failures never block a
// sync.
func (r *Runner) beginHistory(cmd *cli.Command, root string) *models.SyncRun {
	if cmd.Bool("no-history") {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warnf("run history disabled %v", err)
		return nil
	}

	run := models.NewSyncRun(root)
	repo := repositories.NewRunRepository(db)
	if err := repo.Create(run); err != nil {
		r.logger.Warnf("failed to record run start %v", err)
		db.Close()
		return nil
	}

	r.historyDB = db
	return run
}

// finishHistory records the run outcome started by beginHistory.
func (r *Runner) finishHistory(run *models.SyncRun, result *tasks.SyncRunResult, runErr error) {
	if run == nil {
		return
	}
	defer func() {
		if r.historyDB != nil {
			r.historyDB.Close()
			r.historyDB = nil
		}
	}()

	if result != nil {
		run.SetCounts(result.Uploaded, result.Reused, result.Skipped, result.Failed, result.Albums)
	}
	run.Complete(runErr)

	repo := repositories.NewRunRepository(r.historyDB)
	if err := repo.Update(run); err != nil {
		r.logger.Warnf("failed to record run outcome %v", err)
	}
}
