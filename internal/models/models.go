package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// FolderMimeType is the MIME type Drive assigns to folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// File represents a Drive file or folder as listed for one traversal pass.
type File struct {
	ID             string // Stable Drive-assigned identifier
	Name           string // Display name, including extension
	MimeType       string // Declared content type
	Size           int64  // Size in bytes, 0 for folders and Google docs
	DurationMillis string // Video duration as reported by Drive, empty when absent
}

// IsFolder reports whether the file is a Drive folder.
func (f File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// Album represents a Photos album.
type Album struct {
	ID        string
	Title     string
	ItemCount int
}
