package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/mwilde/topho/internal/formatter"
	"github.com/mwilde/topho/internal/ledger"
)

// loadLedger opens the ledger files in the configured directory.
func (r *Runner) loadLedger() (*ledger.Ledger, error) {
	dir := r.config.Sync.LedgerDir
	if dir == "" {
		dir = "."
	}

	led, err := ledger.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return led, nil
}

// missLog builds the append-only miss log, or nil when disabled in config.
func (r *Runner) missLog() *ledger.MissLog {
	if r.config.Sync.MissLog == "" {
		return nil
	}
	return ledger.NewMissLog(r.config.Sync.MissLog)
}

// LedgerShow prints the ledger contents as text, CSV, or JSON.
func (r *Runner) LedgerShow(ctx context.Context, cmd *cli.Command) error {
	led, err := r.loadLedger()
	if err != nil {
		return err
	}

	imported := led.Imported()
	skipped := led.Skipped()

	if path := cmd.String("export"); path != "" {
		if err := formatter.WriteLedgerCSV(imported, skipped, path); err != nil {
			return err
		}
		r.writePlain("✓ Ledger exported to %s\n", path)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"imported": imported,
			"skipped":  skipped,
		}, true)
	}

	if cmd.Bool("csv") {
		data, err := formatter.LedgerToCSV(imported, skipped)
		if err != nil {
			return err
		}
		r.writePlain("%s", string(data))
		return nil
	}

	r.writePlainHeader("Transfer Ledger")
	r.writePlain("Imported: %d\n", len(imported))
	for _, id := range imported {
		r.writePlain("  %s\n", id)
	}

	r.writePlain("Skipped: %d\n", len(skipped))
	ids := make([]string, 0, len(skipped))
	for id := range skipped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r.writePlain("  %s: %s\n", id, skipped[id])
	}

	return nil
}

// LedgerClear removes an entry from the ledger so the next run retries it.
func (r *Runner) LedgerClear(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("file ID argument is required")
	}

	led, err := r.loadLedger()
	if err != nil {
		return err
	}

	if err := led.Clear(id); err != nil {
		return err
	}

	r.logger.Info("cleared ledger entry", "id", id)
	r.writePlain("✓ Cleared %s, the next sync will retry it\n", id)
	return nil
}
