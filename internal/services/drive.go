// Google Drive implementation of [SourceStore]
//
// Talks to the Drive v3 REST API. Requires a client authorized for the
// drive.readonly scope.
package services

import (
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

const defaultDriveBaseURL = "https://www.googleapis.com/drive/v3"

// listPageSize is the number of children requested per page; Drive caps the
// page size at 1000.
const listPageSize = 1000

// driveFile mirrors the fields requested from files.list.
type driveFile struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	MimeType           string `json:"mimeType"`
	Size               string `json:"size"`
	VideoMediaMetadata *struct {
		DurationMillis string `json:"durationMillis"`
	} `json:"videoMediaMetadata"`
}

type driveFileList struct {
	NextPageToken string      `json:"nextPageToken"`
	Files         []driveFile `json:"files"`
}

// DriveService implements [SourceStore] against the Drive v3 API.
type DriveService struct {
	baseURL string
	client  apiClient
}

// NewDriveService creates a Drive service. The http.Client must already
// carry OAuth credentials; requestsPerSecond bounds the API call rate.
func NewDriveService(baseURL string, client *http.Client, requestsPerSecond float64) *DriveService {
	if baseURL == "" {
		baseURL = defaultDriveBaseURL
	}
	return &DriveService{
		baseURL: baseURL,
		client:  newAPIClient(client, requestsPerSecond),
	}
}

// Name returns the service name.
func (d *DriveService) Name() string {
	return "Google Drive"
}

// FindRootFolder resolves a folder by name directly under the Drive root.
func (d *DriveService) FindRootFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("mimeType='%s' and name='%s' and 'root' in parents",
		models.FolderMimeType, escapeQueryValue(name))
	endpoint := fmt.Sprintf("%s/files?q=%s&fields=%s",
		d.baseURL, url.QueryEscape(query), url.QueryEscape("files(id,name)"))

	var list driveFileList
	if err := d.client.doJSON(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", shared.ErrFolderNotFound, name)
	}
	return list.Files[0].ID, nil
}

// ListChildren returns all immediate children of a folder, following
// nextPageToken until the listing is fully drained.
func (d *DriveService) ListChildren(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf("'%s' in parents", escapeQueryValue(folderID))
	fields := "nextPageToken, files(id,name,mimeType,size,videoMediaMetadata(durationMillis))"

	var files []models.File
	pageToken := ""
	for {
		endpoint := fmt.Sprintf("%s/files?q=%s&pageSize=%d&fields=%s",
			d.baseURL, url.QueryEscape(query), listPageSize, url.QueryEscape(fields))
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var list driveFileList
		if err := d.client.doJSON(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
			return nil, fmt.Errorf("%w: listing folder %s: %v", shared.ErrAPIRequest, folderID, err)
		}

		for _, df := range list.Files {
			files = append(files, toFile(df))
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return files, nil
}

// Download fetches the complete content of a file via alt=media, reading the
// body to the end before returning.
func (d *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/files/%s?alt=media", d.baseURL, url.PathEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: downloading %s: %v", shared.ErrAPIRequest, fileID, apiError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}
	return data, nil
}

func toFile(df driveFile) models.File {
	f := models.File{
		ID:       df.ID,
		Name:     df.Name,
		MimeType: df.MimeType,
	}
	if df.Size != "" {
		if size, err := strconv.ParseInt(df.Size, 10, 64); err == nil {
			f.Size = size
		}
	}
	if df.VideoMediaMetadata != nil {
		f.DurationMillis = df.VideoMediaMetadata.DurationMillis
	}
	return f
}

// escapeQueryValue escapes single quotes for Drive query expressions.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}
