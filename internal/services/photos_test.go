package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwilde/topho/internal/shared"
)

func TestPhotosUpload(t *testing.T) {
	t.Run("stages bytes and returns token", func(t *testing.T) {
		var gotBody []byte
		var gotHeaders http.Header
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/uploads" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			gotHeaders = r.Header.Clone()
			gotBody, _ = io.ReadAll(r.Body)
			fmt.Fprint(w, "token-abc\n")
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		token, err := svc.Upload(context.Background(), []byte("raw-jpeg"), "cat.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "token-abc" {
			t.Errorf("expected token-abc, got %q", token)
		}
		if string(gotBody) != "raw-jpeg" {
			t.Errorf("expected raw bytes, got %q", gotBody)
		}
		if got := gotHeaders.Get("X-Goog-Upload-File-Name"); got != "cat.jpg" {
			t.Errorf("expected file name header cat.jpg, got %q", got)
		}
		if got := gotHeaders.Get("X-Goog-Upload-Protocol"); got != "raw" {
			t.Errorf("expected raw protocol header, got %q", got)
		}
		if got := gotHeaders.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("expected octet-stream content type, got %q", got)
		}
	})

	t.Run("empty token is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		if _, err := svc.Upload(context.Background(), []byte("x"), "x.jpg"); err == nil {
			t.Error("expected an error for an empty token body")
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		if _, err := svc.Upload(context.Background(), []byte("x"), "x.jpg"); err == nil {
			t.Error("expected an error for a 503 response")
		}
	})
}

func TestPhotosFindAlbum(t *testing.T) {
	t.Run("paginates to a match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("pageSize") != "50" {
				t.Errorf("expected pageSize=50, got %q", r.URL.Query().Get("pageSize"))
			}
			switch r.URL.Query().Get("pageToken") {
			case "":
				fmt.Fprint(w, `{"albums":[{"id":"a1","title":"Holidays"}],"nextPageToken":"p2"}`)
			case "p2":
				fmt.Fprint(w, `{"albums":[{"id":"a2","title":"Pets","mediaItemsCount":"12"}]}`)
			}
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		album, err := svc.FindAlbum(context.Background(), "Pets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if album == nil {
			t.Fatal("expected an album")
		}
		if album.ID != "a2" || album.ItemCount != 12 {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("absent title returns nil, nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"albums":[{"id":"a1","title":"Holidays"}]}`)
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		album, err := svc.FindAlbum(context.Background(), "Missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if album != nil {
			t.Errorf("expected nil for an absent title, got %+v", album)
		}
	})

	t.Run("requires exact title match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"albums":[{"id":"a1","title":"Pets 2024"}]}`)
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		album, err := svc.FindAlbum(context.Background(), "Pets")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if album != nil {
			t.Errorf("expected no match for a prefix title, got %+v", album)
		}
	})
}

func TestPhotosCreateAlbum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/albums" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Album struct {
				Title string `json:"title"`
			} `json:"album"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		fmt.Fprintf(w, `{"id":"new-1","title":%q}`, req.Album.Title)
	}))
	defer srv.Close()

	svc := NewPhotosService(srv.URL, srv.Client(), 100)
	album, err := svc.CreateAlbum(context.Background(), "Beach Trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if album.ID != "new-1" || album.Title != "Beach Trip" {
		t.Errorf("unexpected album %+v", album)
	}
}

func TestPhotosAppend(t *testing.T) {
	t.Run("commits tokens with batchCreate", func(t *testing.T) {
		var gotAlbumID string
		var gotTokens []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/mediaItems:batchCreate" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req struct {
				AlbumID       string `json:"albumId"`
				NewMediaItems []struct {
					SimpleMediaItem struct {
						UploadToken string `json:"uploadToken"`
					} `json:"simpleMediaItem"`
				} `json:"newMediaItems"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			gotAlbumID = req.AlbumID
			for _, item := range req.NewMediaItems {
				gotTokens = append(gotTokens, item.SimpleMediaItem.UploadToken)
			}
			fmt.Fprint(w, `{"newMediaItemResults":[]}`)
		}))
		defer srv.Close()

		svc := NewPhotosService(srv.URL, srv.Client(), 100)
		err := svc.Append(context.Background(), "album-1", []string{"t1", "t2"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAlbumID != "album-1" {
			t.Errorf("expected album-1, got %q", gotAlbumID)
		}
		if len(gotTokens) != 2 || gotTokens[0] != "t1" || gotTokens[1] != "t2" {
			t.Errorf("unexpected tokens %v", gotTokens)
		}
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		svc := NewPhotosService("http://unused", nil, 100)
		tokens := make([]string, MaxBatchSize+1)
		err := svc.Append(context.Background(), "album-1", tokens)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		svc := NewPhotosService("http://unused", nil, 100)
		if err := svc.Append(context.Background(), "album-1", nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestPhotosListAlbums(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{"albums":[{"id":"a1","title":"One","mediaItemsCount":"3"}],"nextPageToken":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"albums":[{"id":"a2","title":"Two"}]}`)
		}
	}))
	defer srv.Close()

	svc := NewPhotosService(srv.URL, srv.Client(), 100)
	albums, err := svc.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}
	if albums[0].ItemCount != 3 {
		t.Errorf("expected item count 3, got %d", albums[0].ItemCount)
	}
	if albums[1].ItemCount != 0 {
		t.Errorf("expected zero count when absent, got %d", albums[1].ItemCount)
	}
}

func TestPhotosRenameAlbum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/albums/a1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("updateMask") != "title" {
			t.Errorf("expected updateMask=title, got %q", r.URL.RawQuery)
		}
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if req.Title != "New Name" {
			t.Errorf("expected New Name, got %q", req.Title)
		}
		fmt.Fprint(w, `{"id":"a1","title":"New Name"}`)
	}))
	defer srv.Close()

	svc := NewPhotosService(srv.URL, srv.Client(), 100)
	if err := svc.RenameAlbum(context.Background(), "a1", "New Name"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPhotosDeleteAlbum(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	svc := NewPhotosService(srv.URL, srv.Client(), 100)
	if err := svc.DeleteAlbum(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/albums/a1" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}
