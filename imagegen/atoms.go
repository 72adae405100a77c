// Package imagegen provides the image generation pipeline: providers that
// talk to cloud image models, a downloader for URL-based results, and a
// generator that orchestrates a prompt into a file on disk.
//
// atoms.go contains pure utility functions with no dependencies.
package imagegen

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MIMEForFile guesses the MIME type of an image file from its extension.
// Unknown extensions fall back to image/png, the format the pipeline writes.
//
// Example:
//
//	MIMEForFile("sprite.png")  // "image/png"
//	MIMEForFile("photo.JPG")   // "image/jpeg"
//	MIMEForFile("mystery")     // "image/png"
func MIMEForFile(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		// TypeByExtension can append parameters; the API wants the bare type.
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "image/png"
}

// EncodeImageFile reads the file at path and returns its contents as
// standard base64 together with the guessed MIME type.
func EncodeImageFile(path string) (data, mimeType string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("imagegen: failed to read image %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(raw), MIMEForFile(path), nil
}

// ExtensionForMIME maps an image MIME type to a file extension, defaulting
// to .png for anything unrecognized.
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
