// downloader.go implements the Downloader molecule that fetches generated
// images from the temporary URLs some providers return.
//
// This molecule composes:
//   - core.Config: for HTTP/TLS configuration
//   - net/http: for the download itself
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxDownloadBytes caps a single image download. Generated images are a few
// megabytes at most; anything larger is a broken or hostile response.
const maxDownloadBytes = 64 << 20

// Downloader fetches image bytes from provider-hosted URLs.
//
// DALL-E result URLs expire after about an hour, so the Generator downloads
// them immediately after generation.
//
// Thread Safety: Downloader is safe for concurrent use. Each download
// creates its own HTTP request.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a downloader with the given HTTP client. A nil
// client gets a default with a 60 second timeout.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{client: client}
}

// Fetch downloads the image at url and returns its bytes and MIME type.
//
// Returns an error for non-200 replies, for responses that are not images,
// and for bodies over the size cap.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to build download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("imagegen: download returned status %d", resp.StatusCode)
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("imagegen: download returned non-image content type %q", mimeType)
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: failed to read download body: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("imagegen: download exceeded %d byte limit", maxDownloadBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("imagegen: download body was empty")
	}

	return data, mimeType, nil
}
