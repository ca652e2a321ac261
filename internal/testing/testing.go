// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/mwilde/topho/internal/models"
)

// MockSourceStore is a test double for [services.SourceStore]
type MockSourceStore struct{}

func (m *MockSourceStore) FindRootFolder(ctx context.Context, name string) (string, error) {
	return "root", nil
}

func (m *MockSourceStore) ListChildren(ctx context.Context, folderID string) ([]models.File, error) {
	return []models.File{}, nil
}

func (m *MockSourceStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	return []byte{}, nil
}

func (m *MockSourceStore) Name() string { return "mock source" }

// MockLibrary is a test double for [services.Library]
type MockLibrary struct {
	Albums []models.Album
}

func (m *MockLibrary) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return "token", nil
}

func (m *MockLibrary) FindAlbum(ctx context.Context, title string) (*models.Album, error) {
	return nil, nil
}

func (m *MockLibrary) CreateAlbum(ctx context.Context, title string) (*models.Album, error) {
	return &models.Album{ID: "album", Title: title}, nil
}

func (m *MockLibrary) Append(ctx context.Context, albumID string, uploadTokens []string) error {
	return nil
}

func (m *MockLibrary) ListAlbums(ctx context.Context) ([]models.Album, error) {
	return m.Albums, nil
}

func (m *MockLibrary) RenameAlbum(ctx context.Context, albumID, title string) error {
	return nil
}

func (m *MockLibrary) DeleteAlbum(ctx context.Context, albumID string) error {
	return nil
}

func (m *MockLibrary) Name() string { return "mock library" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
