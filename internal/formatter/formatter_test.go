package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwilde/topho/internal/models"
)

func TestLedgerToCSV(t *testing.T) {
	imported := []string{"a1", "a2"}
	skipped := map[string]string{
		"b2": "video too long: 3h",
		"b1": "unsupported type text/plain",
	}

	data, err := LedgerToCSV(imported, skipped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][2] != "Reason" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][0] != "a1" || records[1][1] != "imported" {
		t.Errorf("unexpected first row %v", records[1])
	}
	// Skipped rows sorted by ID.
	if records[3][0] != "b1" || records[4][0] != "b2" {
		t.Errorf("expected skipped rows in ID order, got %v %v", records[3], records[4])
	}
	if records[4][2] != "video too long: 3h" {
		t.Errorf("unexpected reason %q", records[4][2])
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	if err := WriteLedgerCSV([]string{"a1"}, nil, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "a1,imported") {
		t.Errorf("unexpected content %q", data)
	}
}

func TestAlbumsToMarkdown(t *testing.T) {
	albums := []models.Album{
		{ID: "x1", Title: "Pets", ItemCount: 12},
		{ID: "x2", Title: "Trips", ItemCount: 4},
	}

	out := string(AlbumsToMarkdown(albums))

	if !strings.Contains(out, "# Albums") {
		t.Error("expected a heading")
	}
	if !strings.Contains(out, "**Total**: 2") {
		t.Error("expected the total count")
	}
	if !strings.Contains(out, "| Pets | 12 | x1 |") {
		t.Errorf("expected a table row for Pets, got:\n%s", out)
	}
}

func TestAlbumsToText(t *testing.T) {
	out := string(AlbumsToText([]models.Album{{ID: "x1", Title: "Pets", ItemCount: 12}}))

	if !strings.Contains(out, "Albums: 1") {
		t.Error("expected the count line")
	}
	if !strings.Contains(out, "1. Pets (12 items)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunsToText(t *testing.T) {
	completed := models.NewSyncRun("Camera")
	completed.SetCounts(10, 2, 1, 0, 3)
	completed.Complete(nil)

	failed := models.NewSyncRun("Scans")
	failed.Complete(errors.New("drive unreachable"))

	out := string(RunsToText([]*models.SyncRun{completed, failed}))

	if !strings.Contains(out, "Runs: 2") {
		t.Error("expected the run count")
	}
	if !strings.Contains(out, "uploaded 10, reused 2, skipped 1, failed 0, albums 3") {
		t.Errorf("expected the count line, got:\n%s", out)
	}
	if !strings.Contains(out, "failed (drive unreachable)") {
		t.Errorf("expected the failure message, got:\n%s", out)
	}
}

func TestRunToJSON(t *testing.T) {
	run := models.NewSyncRun("Camera")
	run.SetID("r1")
	run.SetCounts(1, 0, 0, 0, 1)
	run.Complete(nil)

	data, err := RunToJSON(run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"root_folder": "Camera"`) {
		t.Errorf("unexpected JSON:\n%s", data)
	}
}
