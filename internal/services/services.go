// package services defines the interfaces for the two Google APIs the
// uploader talks to: Drive as the read-only source and Photos as the
// append-only destination.
package services

import (
	"context"

	"github.com/mwilde/topho/internal/models"
)

// SourceStore is the read side: a hierarchical file store that can be walked
// folder by folder and whose files can be downloaded in full.
type SourceStore interface {
	// FindRootFolder resolves a top-level folder by name and returns its ID.
	// Returns an error wrapping [shared.ErrFolderNotFound] when absent.
	FindRootFolder(ctx context.Context, name string) (string, error)

	// ListChildren returns every immediate child of the folder, folders and
	// files alike, draining pagination before returning.
	ListChildren(ctx context.Context, folderID string) ([]models.File, error)

	// Download fetches the complete byte content of a file.
	Download(ctx context.Context, fileID string) ([]byte, error)

	// Name returns the service name (e.g. "Google Drive")
	Name() string
}

// Library is the write side: a flat media library organized into albums.
// Staged bytes are identified by opaque upload tokens until they are
// committed to an album.
type Library interface {
	// Upload stages raw bytes and returns the upload token. The token is not
	// durable until appended to an album.
	Upload(ctx context.Context, data []byte, filename string) (string, error)

	// FindAlbum resolves an album by exact title, returning (nil, nil) when
	// no album matches.
	FindAlbum(ctx context.Context, title string) (*models.Album, error)

	// CreateAlbum creates a new album with the given title.
	CreateAlbum(ctx context.Context, title string) (*models.Album, error)

	// Append commits up to [MaxBatchSize] upload tokens to an album.
	Append(ctx context.Context, albumID string, uploadTokens []string) error

	// ListAlbums returns every album in the library, draining pagination.
	ListAlbums(ctx context.Context) ([]models.Album, error)

	// RenameAlbum changes an album's title.
	RenameAlbum(ctx context.Context, albumID, title string) error

	// DeleteAlbum removes an album. Media items inside it are not deleted.
	DeleteAlbum(ctx context.Context, albumID string) error

	// Name returns the service name (e.g. "Google Photos")
	Name() string
}

// MaxBatchSize is the largest number of upload tokens one Append call may
// carry, matching the Photos batchCreate limit.
const MaxBatchSize = 50
