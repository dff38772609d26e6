package validation

import (
	"path/filepath"
	"strings"
)

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true, ".m4v": true,
}

// MediaKind classifies an upload by content type first and file extension
// second. It returns "" when the file is neither an image nor a video.
func MediaKind(contentType, filename string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaKindVideo
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return MediaKindImage
	case videoExtensions[ext]:
		return MediaKindVideo
	}

	return ""
}
