package tasks

import (
	"testing"

	"github.com/mwilde/topho/internal/models"
)

func TestClassify(t *testing.T) {
	classifier := Classifier{MaxVideoSeconds: 10000}

	tests := []struct {
		name     string
		file     models.File
		expected Class
	}{
		{
			name:     "folder",
			file:     models.File{Name: "trip", MimeType: models.FolderMimeType},
			expected: ClassFolder,
		},
		{
			name:     "image by content type",
			file:     models.File{Name: "pic", MimeType: "image/jpeg"},
			expected: ClassImage,
		},
		{
			name:     "video by content type",
			file:     models.File{Name: "clip", MimeType: "video/mp4", DurationMillis: "5000"},
			expected: ClassVideo,
		},
		{
			name:     "image by extension when type is opaque",
			file:     models.File{Name: "scan.HEIC", MimeType: "application/octet-stream"},
			expected: ClassImage,
		},
		{
			name:     "video by extension when type is opaque",
			file:     models.File{Name: "clip.MOV", MimeType: "application/octet-stream"},
			expected: ClassVideo,
		},
		{
			name:     "unsupported type",
			file:     models.File{Name: "notes.txt", MimeType: "text/plain"},
			expected: ClassIneligible,
		},
		{
			name:     "unsupported extension without media type",
			file:     models.File{Name: "archive.zip", MimeType: "application/zip"},
			expected: ClassIneligible,
		},
		{
			name:     "video over the ceiling",
			file:     models.File{Name: "film.mp4", MimeType: "video/mp4", DurationMillis: "10000001"},
			expected: ClassVideoTooLong,
		},
		{
			name:     "video at the ceiling",
			file:     models.File{Name: "film.mp4", MimeType: "video/mp4", DurationMillis: "10000000"},
			expected: ClassVideo,
		},
		{
			name:     "missing duration fails open",
			file:     models.File{Name: "clip.mp4", MimeType: "video/mp4"},
			expected: ClassVideo,
		},
		{
			name:     "unparsable duration fails open",
			file:     models.File{Name: "clip.mp4", MimeType: "video/mp4", DurationMillis: "n/a"},
			expected: ClassVideo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classifier.Classify(tt.file)
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClassifyReportsDuration(t *testing.T) {
	classifier := Classifier{MaxVideoSeconds: 60}
	file := models.File{Name: "film.mp4", MimeType: "video/mp4", DurationMillis: "90000"}

	class, seconds := classifier.Classify(file)
	if class != ClassVideoTooLong {
		t.Fatalf("expected ClassVideoTooLong, got %s", class)
	}
	if seconds != 90 {
		t.Errorf("expected 90 seconds, got %v", seconds)
	}
}

func TestClassifyCeilingDisabled(t *testing.T) {
	classifier := Classifier{}
	file := models.File{Name: "film.mp4", MimeType: "video/mp4", DurationMillis: "999999999"}

	if class, _ := classifier.Classify(file); class != ClassVideo {
		t.Errorf("expected ClassVideo with the ceiling disabled, got %s", class)
	}
}
