package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwilde/topho/internal/shared"
)

func TestDriveFindRootFolder(t *testing.T) {
	t.Run("resolves folder id", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			fmt.Fprint(w, `{"files":[{"id":"folder-1","name":"Photos"}]}`)
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		id, err := svc.FindRootFolder(context.Background(), "Photos")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "folder-1" {
			t.Errorf("expected folder-1, got %s", id)
		}

		want := "mimeType='application/vnd.google-apps.folder' and name='Photos' and 'root' in parents"
		if gotQuery != want {
			t.Errorf("expected query %q, got %q", want, gotQuery)
		}
	})

	t.Run("missing folder", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"files":[]}`)
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		_, err := svc.FindRootFolder(context.Background(), "Nope")
		if !errors.Is(err, shared.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}
	})

	t.Run("api error surfaces message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"rate limit exceeded","status":"RESOURCE_EXHAUSTED"}}`)
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		_, err := svc.FindRootFolder(context.Background(), "Photos")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if got := err.Error(); !strings.Contains(got, "rate limit exceeded") {
			t.Errorf("expected API message in error, got %q", got)
		}
	})
}

func TestDriveListChildren(t *testing.T) {
	t.Run("drains pagination", func(t *testing.T) {
		var pageTokens []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("pageToken")
			pageTokens = append(pageTokens, token)
			switch token {
			case "":
				fmt.Fprint(w, `{"files":[{"id":"a","name":"a.jpg","mimeType":"image/jpeg","size":"1024"}],"nextPageToken":"page-2"}`)
			case "page-2":
				fmt.Fprint(w, `{"files":[{"id":"b","name":"b.mp4","mimeType":"video/mp4","videoMediaMetadata":{"durationMillis":"5000"}},{"id":"c","name":"sub","mimeType":"application/vnd.google-apps.folder"}]}`)
			default:
				t.Errorf("unexpected page token %q", token)
			}
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		files, err := svc.ListChildren(context.Background(), "folder-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(pageTokens) != 2 {
			t.Fatalf("expected 2 pages, got %d", len(pageTokens))
		}
		if len(files) != 3 {
			t.Fatalf("expected 3 files, got %d", len(files))
		}
		if files[0].Size != 1024 {
			t.Errorf("expected size 1024, got %d", files[0].Size)
		}
		if files[1].DurationMillis != "5000" {
			t.Errorf("expected duration 5000, got %q", files[1].DurationMillis)
		}
		if !files[2].IsFolder() {
			t.Error("expected third child to be a folder")
		}
	})

	t.Run("queries by parent", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			fmt.Fprint(w, `{"files":[]}`)
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		if _, err := svc.ListChildren(context.Background(), "folder-9"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotQuery != "'folder-9' in parents" {
			t.Errorf("unexpected query %q", gotQuery)
		}
	})
}

func TestDriveDownload(t *testing.T) {
	t.Run("fetches media bytes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("alt") != "media" {
				t.Errorf("expected alt=media, got %q", r.URL.RawQuery)
			}
			w.Write([]byte("jpeg-bytes"))
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		data, err := svc.Download(context.Background(), "file-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		svc := NewDriveService(srv.URL, srv.Client(), 100)
		if _, err := svc.Download(context.Background(), "file-1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestEscapeQueryValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"it's", `it\'s`},
		{"''", `\'\'`},
	}

	for _, tt := range tests {
		if got := escapeQueryValue(tt.input); got != tt.expected {
			t.Errorf("escapeQueryValue(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
