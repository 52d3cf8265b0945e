package storage

import (
	"net/http"
	"strings"
)

const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512
)

var imageTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
	"image/bmp":     {},
	"image/tiff":    {},
	"image/x-icon":  {},
	"image/heic":    {},
	"image/heif":    {},
	"image/avif":    {},
}

var mimeExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"image/bmp":       ".bmp",
	"image/tiff":      ".tiff",
	"image/x-icon":    ".ico",
	"image/heic":      ".heic",
	"image/heif":      ".heif",
	"image/avif":      ".avif",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// DetectMIME sniffs the media type from the leading bytes of data.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return MIMEOctetStream
	}
	if len(data) > mimeDetectionBytes {
		data = data[:mimeDetectionBytes]
	}
	return http.DetectContentType(data)
}

// ExtFromMIME returns the preferred extension for a media type, or "".
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// IsImageMIME reports whether mimeType is a recognised image type.
func IsImageMIME(mimeType string) bool {
	_, ok := imageTypes[normalizeMIME(mimeType)]
	return ok
}

func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME supports exact types and "type/*" wildcards.
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if mimeType == pattern {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasSuffix(prefix, "/") && strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
