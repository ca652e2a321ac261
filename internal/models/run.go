package models

import (
	"fmt"
	"time"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// SyncRun tracks one invocation of the uploader: which root folder was
// processed, how many items were uploaded, reused from the ledger, skipped,
// or failed, and how many albums were touched.
type SyncRun struct {
	id          string
	sequence    int
	rootFolder  string
	uploaded    int
	reused      int
	skipped     int
	failed      int
	albums      int
	status      string
	errMessage  string
	startedAt   time.Time
	completedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSyncRun creates a SyncRun in the running state for the given root folder.
func NewSyncRun(rootFolder string) *SyncRun {
	now := time.Now()
	return &SyncRun{
		rootFolder: rootFolder,
		status:     RunStatusRunning,
		startedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *SyncRun) ID() string           { return r.id }
func (r *SyncRun) Sequence() int        { return r.sequence }
func (r *SyncRun) RootFolder() string   { return r.rootFolder }
func (r *SyncRun) Uploaded() int        { return r.uploaded }
func (r *SyncRun) Reused() int          { return r.reused }
func (r *SyncRun) Skipped() int         { return r.skipped }
func (r *SyncRun) Failed() int          { return r.failed }
func (r *SyncRun) Albums() int          { return r.albums }
func (r *SyncRun) Status() string       { return r.status }
func (r *SyncRun) ErrorMessage() string { return r.errMessage }
func (r *SyncRun) StartedAt() time.Time { return r.startedAt }
func (r *SyncRun) CreatedAt() time.Time { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time { return r.updatedAt }

// CompletedAt returns when the run finished, or nil while running.
func (r *SyncRun) CompletedAt() *time.Time { return r.completedAt }

func (r *SyncRun) SetID(id string)            { r.id = id }
func (r *SyncRun) SetSequence(seq int)        { r.sequence = seq }
func (r *SyncRun) SetStatus(status string)    { r.status = status }
func (r *SyncRun) SetErrorMessage(msg string) { r.errMessage = msg }
func (r *SyncRun) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *SyncRun) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *SyncRun) SetStartedAt(t time.Time)   { r.startedAt = t }
func (r *SyncRun) SetCompletedAt(t time.Time) { r.completedAt = &t }

// SetCounts records the item and album totals for the run.
func (r *SyncRun) SetCounts(uploaded, reused, skipped, failed, albums int) {
	r.uploaded = uploaded
	r.reused = reused
	r.skipped = skipped
	r.failed = failed
	r.albums = albums
}

// Complete marks the run as finished, with the failure message when err is
// non-nil.
func (r *SyncRun) Complete(err error) {
	now := time.Now()
	r.completedAt = &now
	r.updatedAt = now
	if err != nil {
		r.status = RunStatusFailed
		r.errMessage = err.Error()
	} else {
		r.status = RunStatusCompleted
	}
}

// Validate checks if the run's data is valid.
func (r *SyncRun) Validate() error {
	if r.rootFolder == "" {
		return fmt.Errorf("sync run requires a root folder name")
	}
	switch r.status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed:
	default:
		return fmt.Errorf("invalid run status: %q", r.status)
	}
	if r.uploaded < 0 || r.reused < 0 || r.skipped < 0 || r.failed < 0 || r.albums < 0 {
		return fmt.Errorf("run counts cannot be negative")
	}
	return nil
}
