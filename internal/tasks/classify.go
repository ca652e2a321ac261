package tasks

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwilde/topho/internal/models"
)

// Class is the outcome of classifying one Drive item.
type Class int

const (
	ClassFolder Class = iota
	ClassIneligible
	ClassImage
	ClassVideo
	ClassVideoTooLong
)

func (c Class) String() string {
	switch c {
	case ClassFolder:
		return "folder"
	case ClassIneligible:
		return "ineligible"
	case ClassImage:
		return "image"
	case ClassVideo:
		return "video"
	case ClassVideoTooLong:
		return "video_too_long"
	default:
		return ""
	}
}

// imageExts and videoExts are the extension allow-lists used when an item's
// declared content type is not a recognizable media type.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".heic": true,
	".dng":  true,
}

var videoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".wav": true,
}

// Classifier decides whether a Drive item is eligible for upload.
type Classifier struct {
	// MaxVideoSeconds is the duration ceiling for videos. Zero or negative
	// disables the ceiling.
	MaxVideoSeconds float64
}

// Classify determines an item's class from its declared content type, its
// filename extension, and for videos its duration metadata.
//
// The content type is checked first; the extension allow-lists only apply
// when the content type is not a media type. Videos with absent or
// unparsable duration metadata are treated as within the limit.
func (c Classifier) Classify(f models.File) (Class, float64) {
	if f.IsFolder() {
		return ClassFolder, 0
	}

	switch {
	case strings.HasPrefix(f.MimeType, "image/"):
		return ClassImage, 0
	case strings.HasPrefix(f.MimeType, "video/"):
		return c.classifyVideo(f)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	switch {
	case imageExts[ext]:
		return ClassImage, 0
	case videoExts[ext]:
		return c.classifyVideo(f)
	}

	return ClassIneligible, 0
}

// classifyVideo applies the duration ceiling, failing open when the
// metadata is missing or unparsable.
func (c Classifier) classifyVideo(f models.File) (Class, float64) {
	if c.MaxVideoSeconds <= 0 || f.DurationMillis == "" {
		return ClassVideo, 0
	}

	millis, err := strconv.ParseFloat(f.DurationMillis, 64)
	if err != nil {
		return ClassVideo, 0
	}

	seconds := millis / 1000
	if seconds > c.MaxVideoSeconds {
		return ClassVideoTooLong, seconds
	}
	return ClassVideo, seconds
}
