package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/services"
	"github.com/mwilde/topho/internal/shared"
)

// AlbumRename records one title change made by [ImportEngine.Tidy].
type AlbumRename struct {
	ID       string
	OldTitle string
	NewTitle string
}

// TidyResult contains the outcome of one album tidy pass.
type TidyResult struct {
	Deleted []models.Album // Empty albums that were removed
	Renamed []AlbumRename  // Path-titled albums renamed to their last segment
	Failed  int            // Albums whose delete or rename failed
}

// bindAlbum files this folder's upload tokens into an album titled with the
// folder path. No-op when the folder produced no uploads, so empty albums
// are never created.
//
// A binding failure leaves the uploaded items unfiled but still marked
// imported; re-running would duplicate them, so the ledger is never rolled
// back here.
func (e *ImportEngine) bindAlbum(ctx context.Context, progress chan<- ProgressUpdate, folderPath string, tokens []string, result *SyncRunResult) {
	if len(tokens) == 0 {
		return
	}

	e.sendProgress(progress, bindAlbumUpdate(folderPath, len(tokens)))

	album, err := e.library.FindAlbum(ctx, folderPath)
	if err != nil {
		result.Failed++
		e.sendProgress(progress, bindFailedUpdate(folderPath, err))
		return
	}
	if album == nil {
		album, err = e.library.CreateAlbum(ctx, folderPath)
		if err != nil {
			result.Failed++
			e.sendProgress(progress, bindFailedUpdate(folderPath, err))
			return
		}
	}

	result.Albums++

	// Each batch commits independently; one failed batch never blocks the
	// rest.
	for start := 0; start < len(tokens); start += services.MaxBatchSize {
		end := start + services.MaxBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		if err := e.library.Append(ctx, album.ID, tokens[start:end]); err != nil {
			result.Failed++
			e.sendProgress(progress, bindFailedUpdate(folderPath, fmt.Errorf("batch of %d: %w", end-start, err)))
			continue
		}
		result.Batches++
	}
}

// Tidy deletes empty albums and renames albums whose title is a folder path
// to the path's last segment. Per-album failures are counted and do not stop
// the pass.
func (e *ImportEngine) Tidy(ctx context.Context, progress chan<- ProgressUpdate) (*TidyResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	albums, err := e.library.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}

	result := &TidyResult{}
	for _, album := range albums {
		if album.ItemCount == 0 {
			e.sendProgress(progress, tidyUpdate(fmt.Sprintf("Deleting empty album %q...", album.Title)))
			if err := e.library.DeleteAlbum(ctx, album.ID); err != nil {
				result.Failed++
				e.sendProgress(progress, tidyUpdate(fmt.Sprintf("✗ Delete %q: %v", album.Title, err)))
				continue
			}
			result.Deleted = append(result.Deleted, album)
			continue
		}

		newTitle := lastSegment(album.Title)
		if newTitle == album.Title {
			continue
		}

		e.sendProgress(progress, tidyUpdate(fmt.Sprintf("Renaming %q to %q...", album.Title, newTitle)))
		if err := e.library.RenameAlbum(ctx, album.ID, newTitle); err != nil {
			result.Failed++
			e.sendProgress(progress, tidyUpdate(fmt.Sprintf("✗ Rename %q: %v", album.Title, err)))
			continue
		}
		result.Renamed = append(result.Renamed, AlbumRename{
			ID:       album.ID,
			OldTitle: album.Title,
			NewTitle: newTitle,
		})
	}

	return result, nil
}

// lastSegment returns the final path segment of a slash-joined album title,
// or the title unchanged when it holds no usable segment.
func lastSegment(title string) string {
	if !strings.Contains(title, "/") {
		return title
	}

	segments := strings.Split(title, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return title
}
