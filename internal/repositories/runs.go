package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/shared"
)

// RunRepository implements models.Repository[*models.SyncRun] for sync run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (
			id, sequence, root_folder, uploaded, reused, skipped, failed,
			albums, status, error_message, started_at, completed_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.RootFolder(),
		run.Uploaded(),
		run.Reused(),
		run.Skipped(),
		run.Failed(),
		run.Albums(),
		run.Status(),
		nullable(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := selectRuns + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET uploaded = ?, reused = ?, skipped = ?, failed = ?, albums = ?,
			status = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Uploaded(),
		run.Reused(),
		run.Skipped(),
		run.Failed(),
		run.Albums(),
		run.Status(),
		nullable(run.ErrorMessage()),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID())
	}

	return nil
}

// Delete removes a run from the database by its ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// List retrieves runs matching the given criteria, newest first.
//
// Supported criteria: "status" (string), "root_folder" (string),
// "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := selectRuns
	var args []any

	where := ""
	if status, ok := criteria["status"]; ok {
		where = " WHERE status = ?"
		args = append(args, status)
	}
	if root, ok := criteria["root_folder"]; ok {
		if where == "" {
			where = " WHERE root_folder = ?"
		} else {
			where += " AND root_folder = ?"
		}
		args = append(args, root)
	}

	query += where + " ORDER BY started_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

const selectRuns = `
	SELECT
		id, sequence, root_folder, uploaded, reused, skipped, failed,
		albums, status, error_message, started_at, completed_at,
		created_at, updated_at
	FROM runs
`

type scannable interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row *sql.Row) (*models.SyncRun, error) {
	run, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	return run, err
}

func (r *RunRepository) scanRow(row scannable) (*models.SyncRun, error) {
	var id, rootFolder, status string
	var sequence, uploaded, reused, skipped, failed, albums int
	var errorMessage sql.NullString
	var startedAt, createdAt, updatedAt time.Time
	var completedAt sql.NullTime

	err := row.Scan(&id, &sequence, &rootFolder, &uploaded, &reused, &skipped,
		&failed, &albums, &status, &errorMessage, &startedAt, &completedAt,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewSyncRun(rootFolder)
	run.SetID(id)
	run.SetSequence(sequence)
	run.SetCounts(uploaded, reused, skipped, failed, albums)
	run.SetStatus(status)
	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	run.SetStartedAt(startedAt)
	if completedAt.Valid {
		run.SetCompletedAt(completedAt.Time)
	}
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	return run, nil
}

// nullable converts an empty string to NULL for storage.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
