package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mwilde/topho/internal/formatter"
	"github.com/mwilde/topho/internal/repositories"
	"github.com/mwilde/topho/internal/shared"
)

// History prints past sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database, run 'topho setup' first: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}
	if root := cmd.String("root"); root != "" {
		criteria["root_folder"] = root
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = int(limit)
	}

	repo := repositories.NewRunRepository(db)
	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cmd.Bool("json") {
		summaries := make([]map[string]any, 0, len(runs))
		for _, run := range runs {
			summaries = append(summaries, formatter.RunSummary(run))
		}
		return r.writeJSON(summaries, true)
	}

	r.writePlain("%s", string(formatter.RunsToText(runs)))
	return nil
}
