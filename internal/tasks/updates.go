package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveRoot Phase = iota
	ScanFolder
	Transfer
	BindAlbum
	TidyAlbums
	Complete
)

func (p Phase) String() string {
	switch p {
	case ResolveRoot:
		return "resolve_root"
	case ScanFolder:
		return "scan_folder"
	case Transfer:
		return "transfer"
	case BindAlbum:
		return "bind_album"
	case TidyAlbums:
		return "tidy_albums"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func resolveRootUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveRoot,
		Message: fmt.Sprintf("Resolving root folder %q...", name),
	}
}

func scanFolderUpdate(folderPath string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFolder,
		Message: fmt.Sprintf("Scanning %s...", folderPath),
	}
}

func scanFailedUpdate(folderPath string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFolder,
		Message: fmt.Sprintf("✗ Failed to list %s: %v", folderPath, err),
	}
}

func transferUpdate(folderPath, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transfer,
		Message: fmt.Sprintf("Uploading %s/%s...", folderPath, name),
	}
}

func reusedUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transfer,
		Message: fmt.Sprintf("Already imported: %s", name),
	}
}

func skippedUpdate(name, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transfer,
		Message: fmt.Sprintf("Skipped %s: %s", name, reason),
	}
}

func transferFailedUpdate(name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Transfer,
		Message: fmt.Sprintf("✗ %s: %v", name, err),
	}
}

func bindAlbumUpdate(title string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BindAlbum,
		Message: fmt.Sprintf("Adding %d items to album %q...", count, title),
	}
}

func bindFailedUpdate(title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BindAlbum,
		Message: fmt.Sprintf("✗ Album %q: %v", title, err),
	}
}

func tidyUpdate(message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TidyAlbums,
		Message: message,
	}
}

func completeUpdate(result *SyncRunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Message: fmt.Sprintf("Done: %d uploaded, %d reused, %d skipped, %d failed, %d albums",
			result.Uploaded, result.Reused, result.Skipped, result.Failed, result.Albums),
		Data: result,
	}
}
