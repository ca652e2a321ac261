// Google Photos implementation of [Library]
//
// Talks to the Photos Library v1 REST API. Requires a client authorized for
// the appendonly and edit.appcreateddata scopes.
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwilde/topho/internal/models"
	"github.com/mwilde/topho/internal/shared"
)

const defaultPhotosBaseURL = "https://photoslibrary.googleapis.com/v1"

// albumPageSize is the Photos albums.list page size cap.
const albumPageSize = 50

// photosAlbum mirrors the album fields used by the uploader. The API returns
// mediaItemsCount as a decimal string.
type photosAlbum struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	MediaItemsCount string `json:"mediaItemsCount"`
}

type photosAlbumList struct {
	Albums        []photosAlbum `json:"albums"`
	NextPageToken string        `json:"nextPageToken"`
}

// PhotosService implements [Library] against the Photos Library API.
type PhotosService struct {
	baseURL string
	client  apiClient
}

// NewPhotosService creates a Photos service. The http.Client must already
// carry OAuth credentials; requestsPerSecond bounds the API call rate.
func NewPhotosService(baseURL string, client *http.Client, requestsPerSecond float64) *PhotosService {
	if baseURL == "" {
		baseURL = defaultPhotosBaseURL
	}
	return &PhotosService{
		baseURL: baseURL,
		client:  newAPIClient(client, requestsPerSecond),
	}
}

// Name returns the service name.
func (p *PhotosService) Name() string {
	return "Google Photos"
}

// Upload stages raw bytes with the uploads endpoint and returns the upload
// token from the response body.
func (p *PhotosService) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/uploads", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Goog-Upload-File-Name", filename)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")

	resp, err := p.client.do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: %v", apiError(resp))
	}

	// The uploads endpoint responds with the bare token as text.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload token: %w", err)
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("upload returned an empty token")
	}
	return token, nil
}

// FindAlbum pages through albums.list until an exact title match is found.
// Returns (nil, nil) when no album matches.
func (p *PhotosService) FindAlbum(ctx context.Context, title string) (*models.Album, error) {
	pageToken := ""
	for {
		list, err := p.listPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}

		for _, pa := range list.Albums {
			if pa.Title == title {
				album := toAlbum(pa)
				return &album, nil
			}
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			return nil, nil
		}
	}
}

// CreateAlbum creates a new album with the given title.
func (p *PhotosService) CreateAlbum(ctx context.Context, title string) (*models.Album, error) {
	body, err := shared.MarshalJSON(map[string]any{"album": map[string]string{"title": title}}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal album request: %w", err)
	}

	var created photosAlbum
	if err := p.client.doJSON(ctx, http.MethodPost, p.baseURL+"/albums", bytes.NewReader(body), &created); err != nil {
		return nil, fmt.Errorf("%w: creating album %q: %v", shared.ErrAPIRequest, title, err)
	}

	album := toAlbum(created)
	return &album, nil
}

// Append commits upload tokens to an album with one batchCreate call.
func (p *PhotosService) Append(ctx context.Context, albumID string, uploadTokens []string) error {
	if len(uploadTokens) == 0 {
		return nil
	}
	if len(uploadTokens) > MaxBatchSize {
		return fmt.Errorf("%w: batch of %d exceeds the %d item limit", shared.ErrInvalidArgument, len(uploadTokens), MaxBatchSize)
	}

	items := make([]map[string]any, len(uploadTokens))
	for i, token := range uploadTokens {
		items[i] = map[string]any{"simpleMediaItem": map[string]string{"uploadToken": token}}
	}

	body, err := shared.MarshalJSON(map[string]any{
		"albumId":       albumID,
		"newMediaItems": items,
	}, false)
	if err != nil {
		return fmt.Errorf("failed to marshal batch request: %w", err)
	}

	endpoint := p.baseURL + "/mediaItems:batchCreate"
	if err := p.client.doJSON(ctx, http.MethodPost, endpoint, bytes.NewReader(body), nil); err != nil {
		return fmt.Errorf("%w: appending to album: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// ListAlbums returns every album, draining pagination.
func (p *PhotosService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	pageToken := ""
	for {
		list, err := p.listPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}

		for _, pa := range list.Albums {
			albums = append(albums, toAlbum(pa))
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			return albums, nil
		}
	}
}

// RenameAlbum changes an album's title via a field-masked patch.
func (p *PhotosService) RenameAlbum(ctx context.Context, albumID, title string) error {
	body, err := shared.MarshalJSON(map[string]string{"title": title}, false)
	if err != nil {
		return fmt.Errorf("failed to marshal rename request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/albums/%s?updateMask=title", p.baseURL, url.PathEscape(albumID))
	if err := p.client.doJSON(ctx, http.MethodPatch, endpoint, bytes.NewReader(body), nil); err != nil {
		return fmt.Errorf("%w: renaming album: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// DeleteAlbum removes an album. The media items it contained stay in the
// library.
func (p *PhotosService) DeleteAlbum(ctx context.Context, albumID string) error {
	endpoint := fmt.Sprintf("%s/albums/%s", p.baseURL, url.PathEscape(albumID))
	if err := p.client.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("%w: deleting album: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func (p *PhotosService) listPage(ctx context.Context, pageToken string) (*photosAlbumList, error) {
	endpoint := fmt.Sprintf("%s/albums?pageSize=%d", p.baseURL, albumPageSize)
	if pageToken != "" {
		endpoint += "&pageToken=" + url.QueryEscape(pageToken)
	}

	var list photosAlbumList
	if err := p.client.doJSON(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, fmt.Errorf("%w: listing albums: %v", shared.ErrAPIRequest, err)
	}
	return &list, nil
}

func toAlbum(pa photosAlbum) models.Album {
	album := models.Album{
		ID:    pa.ID,
		Title: pa.Title,
	}
	if pa.MediaItemsCount != "" {
		if count, err := strconv.Atoi(pa.MediaItemsCount); err == nil {
			album.ItemCount = count
		}
	}
	return album
}
