// package formatter provides functions to export ledger, album, and run data
// to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/shared"
)

// LedgerToCSV renders ledger state as CSV with columns: ID, Status, Reason.
// Imported entries come first, then skipped entries, each sorted by ID.
func LedgerToCSV(imported []string, skipped map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Status", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, id := range imported {
		if err := writer.Write([]string{id, "imported", ""}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	skippedIDs := make([]string, 0, len(skipped))
	for id := range skipped {
		skippedIDs = append(skippedIDs, id)
	}
	sort.Strings(skippedIDs)

	for _, id := range skippedIDs {
		if err := writer.Write([]string{id, "skipped", skipped[id]}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteLedgerCSV writes the ledger CSV export to the given path.
func WriteLedgerCSV(imported []string, skipped map[string]string, path string) error {
	data, err := LedgerToCSV(imported, skipped)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// AlbumsToMarkdown renders an album list as a Markdown table.
func AlbumsToMarkdown(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Albums\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(albums)))
	buf.WriteString("| Title | Items | ID |\n")
	buf.WriteString("| --- | --- | --- |\n")

	for _, album := range albums {
		buf.WriteString(fmt.Sprintf("| %s | %d | %s |\n", album.Title, album.ItemCount, album.ID))
	}

	return buf.Bytes()
}

// AlbumsToText renders an album list as plain text.
func AlbumsToText(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(albums)))
	for i, album := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s (%d items)\n", i+1, album.Title, album.ItemCount))
	}

	return buf.Bytes()
}

// RunsToText renders run history as plain text, one block per run.
func RunsToText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Runs: %d\n\n", len(runs)))
	for i, run := range runs {
		status := run.Status()
		if run.ErrorMessage() != "" {
			status = fmt.Sprintf("%s (%s)", status, run.ErrorMessage())
		}
		buf.WriteString(fmt.Sprintf("%d. %s: started %s, %s\n", i+1,
			run.RootFolder(), run.StartedAt().Format("2006-01-02 15:04"), status))
		buf.WriteString(fmt.Sprintf("   uploaded %d, reused %d, skipped %d, failed %d, albums %d\n",
			run.Uploaded(), run.Reused(), run.Skipped(), run.Failed(), run.Albums()))
	}

	return buf.Bytes()
}

// RunToJSON generates a JSON representation of one run's summary.
func RunToJSON(run *models.SyncRun) ([]byte, error) {
	return shared.MarshalJSON(RunSummary(run), true)
}

// RunSummary flattens a run into a map for JSON output.
func RunSummary(run *models.SyncRun) map[string]any {
	summary := map[string]any{
		"id":          run.ID(),
		"root_folder": run.RootFolder(),
		"uploaded":    run.Uploaded(),
		"reused":      run.Reused(),
		"skipped":     run.Skipped(),
		"failed":      run.Failed(),
		"albums":      run.Albums(),
		"status":      run.Status(),
		"started_at":  run.StartedAt(),
	}
	if run.ErrorMessage() != "" {
		summary["error"] = run.ErrorMessage()
	}
	if run.CompletedAt() != nil {
		summary["completed_at"] = run.CompletedAt()
	}
	return summary
}
