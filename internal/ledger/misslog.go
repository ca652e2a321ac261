package ledger

import (
	"fmt"
	"os"
)

// MissLog is the append-only diagnostics file recording every item that was
// not uploaded: unsupported types, over-limit videos, and transfer failures.
// It is write-only from the engine's point of view.
type MissLog struct {
	path string
}

// NewMissLog creates a MissLog writing to the given path. The file is created
// on first append.
func NewMissLog(path string) *MissLog {
	return &MissLog{path: path}
}

// Append writes one "folder - name : reason" line.
func (m *MissLog) Append(folderPath, name, reason string) error {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open miss log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s - %s : %s\n", folderPath, name, reason); err != nil {
		return fmt.Errorf("failed to append to miss log: %w", err)
	}
	return nil
}
