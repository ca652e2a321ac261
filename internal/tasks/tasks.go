package tasks

import (
	"context"
	"fmt"

	"github.com/mwilde/topho/internal/ledger"
	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/services"
	"github.com/mwilde/topho/internal/shared"
)

// SyncRunResult contains the outcome counts of one full sync run.
type SyncRunResult struct {
	Root     string // Root folder name
	RootID   string // Resolved root folder ID
	Uploaded int    // Items uploaded this run
	Reused   int    // Items already imported by an earlier run
	Skipped  int    // Items skipped (ineligible, too long, or previously skipped)
	Failed   int    // Items and folders that failed
	Albums   int    // Albums bound (found or created)
	Batches  int    // Successful batch commits
}

// SyncEngine defines the operations for syncing a Drive folder tree into the
// Photos library.
type SyncEngine interface {
	// Run walks the named root folder, uploads eligible media, and files each
	// folder's uploads into an album named after the folder path.
	Run(ctx context.Context, progress chan<- ProgressUpdate, rootName string) (*SyncRunResult, error)

	// Tidy deletes empty albums and renames path-titled albums to their last
	// segment.
	Tidy(ctx context.Context, progress chan<- ProgressUpdate) (*TidyResult, error)
}

// ImportEngine implements [SyncEngine]. It owns the run's ledger exclusively;
// no other component writes ledger state while a run is in flight.
type ImportEngine struct {
	source     services.SourceStore
	library    services.Library
	ledger     *ledger.Ledger
	misses     *ledger.MissLog
	classifier Classifier
}

// NewImportEngine creates an engine over the given source and library. The
// miss log may be nil to disable the diagnostics file.
func NewImportEngine(source services.SourceStore, library services.Library, led *ledger.Ledger, misses *ledger.MissLog, classifier Classifier) *ImportEngine {
	return &ImportEngine{
		source:     source,
		library:    library,
		ledger:     led,
		misses:     misses,
		classifier: classifier,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full sync of the named root folder.
//
// Failure to resolve the root folder aborts the run; every later failure is
// scoped to the item or folder it occurred in.
func (e *ImportEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, rootName string) (*SyncRunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}
	if e.ledger == nil {
		return nil, fmt.Errorf("%w: ledger not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, resolveRootUpdate(rootName))

	rootID, err := e.source.FindRootFolder(ctx, rootName)
	if err != nil {
		return nil, fmt.Errorf("resolving root folder %q: %w", rootName, err)
	}

	result := &SyncRunResult{Root: rootName, RootID: rootID}
	e.walkFolder(ctx, progress, rootID, rootName, result)

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// walkFolder drains one folder's listing, recurses into sub-folders as they
// appear, transfers eligible leaf items, and binds the folder's upload
// tokens to its album before returning. The token accumulator is local to
// the call frame so sibling folders never share state.
func (e *ImportEngine) walkFolder(ctx context.Context, progress chan<- ProgressUpdate, folderID, folderPath string, result *SyncRunResult) {
	e.sendProgress(progress, scanFolderUpdate(folderPath))

	children, err := e.source.ListChildren(ctx, folderID)
	if err != nil {
		result.Failed++
		e.sendProgress(progress, scanFailedUpdate(folderPath, err))
		return
	}

	var tokens []string
	for _, child := range children {
		if child.IsFolder() {
			e.walkFolder(ctx, progress, child.ID, folderPath+"/"+child.Name, result)
			continue
		}

		token, ok := e.transferItem(ctx, progress, folderPath, child, result)
		if ok {
			tokens = append(tokens, token)
		}
	}

	e.bindAlbum(ctx, progress, folderPath, tokens, result)
}

// transferItem runs one leaf item through the ledger gate, classification,
// download, and upload. Returns the upload token and true when the item was
// staged this run.
func (e *ImportEngine) transferItem(ctx context.Context, progress chan<- ProgressUpdate, folderPath string, item models.File, result *SyncRunResult) (string, bool) {
	if e.ledger.IsImported(item.ID) {
		result.Reused++
		e.sendProgress(progress, reusedUpdate(item.Name))
		return "", false
	}
	if reason, skipped := e.ledger.SkipReason(item.ID); skipped {
		result.Skipped++
		e.sendProgress(progress, skippedUpdate(item.Name, reason))
		return "", false
	}

	class, seconds := e.classifier.Classify(item)
	switch class {
	case ClassIneligible:
		// Unsupported types are cheap to detect on every run, so they are
		// logged but never written to the ledger.
		result.Skipped++
		reason := fmt.Sprintf("unsupported type %s", item.MimeType)
		e.logMiss(folderPath, item.Name, reason)
		e.sendProgress(progress, skippedUpdate(item.Name, reason))
		return "", false
	case ClassVideoTooLong:
		reason := fmt.Sprintf("video too long: %s", shared.FormatDuration(seconds))
		result.Skipped++
		e.recordSkip(progress, folderPath, item, reason)
		return "", false
	}

	e.sendProgress(progress, transferUpdate(folderPath, item.Name))

	data, err := e.source.Download(ctx, item.ID)
	if err != nil {
		result.Failed++
		e.recordSkip(progress, folderPath, item, fmt.Sprintf("download failed: %v", err))
		return "", false
	}

	token, err := e.library.Upload(ctx, data, item.Name)
	if err != nil {
		result.Failed++
		e.recordSkip(progress, folderPath, item, fmt.Sprintf("upload failed: %v", err))
		return "", false
	}

	if err := e.ledger.MarkImported(item.ID); err != nil {
		// The bytes are staged; keep the token so the item still lands in
		// its album, but surface the ledger write failure.
		e.sendProgress(progress, transferFailedUpdate(item.Name, fmt.Errorf("ledger write failed: %w", err)))
	}

	result.Uploaded++
	return token, true
}

// recordSkip writes a permanent skip entry and appends to the miss log, so
// the item is never retried without operator intervention.
func (e *ImportEngine) recordSkip(progress chan<- ProgressUpdate, folderPath string, item models.File, reason string) {
	if err := e.ledger.MarkSkipped(item.ID, reason); err != nil {
		e.sendProgress(progress, transferFailedUpdate(item.Name, fmt.Errorf("ledger write failed: %w", err)))
	}
	e.logMiss(folderPath, item.Name, reason)

	e.sendProgress(progress, skippedUpdate(item.Name, reason))
}

func (e *ImportEngine) logMiss(folderPath, name, reason string) {
	if e.misses == nil {
		return
	}
	// Diagnostics only; an append failure never affects the run.
	_ = e.misses.Append(folderPath, name, reason)
}
