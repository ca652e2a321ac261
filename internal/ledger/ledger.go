// Package ledger persists the per-item outcomes that make repeated runs
// idempotent: which Drive file IDs were already uploaded to Photos, and which
// were permanently skipped and why.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mwilde/topho/internal/shared"
)

// Default ledger file names, relative to the configured ledger directory.
const (
	ImportedFile = "imported.json"
	SkippedFile  = "skipped.json"
)

// Ledger is the durable record of terminal item outcomes. An imported ID is
// never uploaded again; a skipped ID is never retried until an operator
// clears it. Every mutation is written through to disk before returning, so
// a crash never loses an outcome that was already reported.
type Ledger struct {
	importedPath string
	skippedPath  string
	imported     map[string]bool
	skipped      map[string]string
}

// Load reads both ledger files from dir. Missing or empty files are treated
// as empty ledgers. Files in the legacy shape (a flat JSON array of IDs) are
// upgraded to the keyed shape and rewritten before the ledger is used.
func Load(dir string) (*Ledger, error) {
	l := &Ledger{
		importedPath: filepath.Join(dir, ImportedFile),
		skippedPath:  filepath.Join(dir, SkippedFile),
		imported:     make(map[string]bool),
		skipped:      make(map[string]string),
	}

	importedLegacy, err := loadKeyed(l.importedPath, l.imported, func(id string) { l.imported[id] = true })
	if err != nil {
		return nil, err
	}

	skippedLegacy, err := loadKeyed(l.skippedPath, l.skipped, func(id string) {
		l.skipped[id] = "skipped before reason tracking was added"
	})
	if err != nil {
		return nil, err
	}

	// Persist the upgraded shape before any further mutation.
	if importedLegacy {
		if err := l.saveImported(); err != nil {
			return nil, err
		}
	}
	if skippedLegacy {
		if err := l.saveSkipped(); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// loadKeyed reads one ledger file into target. It returns true when the file
// held the legacy flat-array shape and addLegacy was used to populate the map.
func loadKeyed[V any](path string, target map[string]V, addLegacy func(id string)) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read ledger file %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, &target); err == nil {
		return false, nil
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return false, fmt.Errorf("%w: %s", shared.ErrLedgerCorrupt, path)
	}
	for _, id := range legacy {
		addLegacy(id)
	}
	return true, nil
}

// IsImported reports whether the ID was uploaded by a previous pass.
func (l *Ledger) IsImported(id string) bool {
	return l.imported[id]
}

// SkipReason returns the recorded reason for a permanently skipped ID.
func (l *Ledger) SkipReason(id string) (string, bool) {
	reason, ok := l.skipped[id]
	return reason, ok
}

// MarkImported durably records a successful upload.
func (l *Ledger) MarkImported(id string) error {
	l.imported[id] = true
	return l.saveImported()
}

// MarkSkipped durably records a permanent failure with its reason.
func (l *Ledger) MarkSkipped(id, reason string) error {
	l.skipped[id] = reason
	return l.saveSkipped()
}

// Clear removes an ID from both stores so the next run retries it. Returns
// [shared.ErrEntryNotFound] when the ID appears in neither.
func (l *Ledger) Clear(id string) error {
	_, wasImported := l.imported[id]
	_, wasSkipped := l.skipped[id]
	if !wasImported && !wasSkipped {
		return fmt.Errorf("%w: %s", shared.ErrEntryNotFound, id)
	}

	if wasImported {
		delete(l.imported, id)
		if err := l.saveImported(); err != nil {
			return err
		}
	}
	if wasSkipped {
		delete(l.skipped, id)
		if err := l.saveSkipped(); err != nil {
			return err
		}
	}
	return nil
}

// Imported returns the imported IDs in sorted order.
func (l *Ledger) Imported() []string {
	ids := make([]string, 0, len(l.imported))
	for id := range l.imported {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Skipped returns a copy of the skipped ID to reason map.
func (l *Ledger) Skipped() map[string]string {
	out := make(map[string]string, len(l.skipped))
	for id, reason := range l.skipped {
		out[id] = reason
	}
	return out
}

func (l *Ledger) saveImported() error {
	return writeJSONFile(l.importedPath, l.imported)
}

func (l *Ledger) saveSkipped() error {
	return writeJSONFile(l.skippedPath, l.skipped)
}

// writeJSONFile writes through a temp file and renames so a crash mid-write
// never leaves a truncated ledger on disk.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
