// client.go implements the Client molecule that calls the generateContent
// endpoint and extracts the first image the model returns.
//
// This molecule composes:
//   - types.go: the request/response wire types
//   - core.Config: for endpoint, API key and HTTP client settings
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"spritegen/core"
)

var (
	// ErrNoImage means the call succeeded but no candidate part carried
	// inline image data. Models sometimes answer an image request with
	// text only.
	ErrNoImage = errors.New("gemini: response contained no image data")

	// ErrNetwork classes transport-level failures: DNS, TLS, timeouts,
	// connection resets. Distinct from ServiceError, which is the API
	// answering with an error.
	ErrNetwork = errors.New("gemini: network failure")
)

// Client calls the Gemini generateContent API.
//
// Thread Safety: Client is safe for concurrent use. Each call builds its
// own request and the underlying http.Client pools connections.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Gemini client from the application config.
//
// Returns an error if the Gemini API key is missing. The endpoint and
// timeout come from the config; self-signed certificate handling follows
// the config's TLS settings.
func NewClient(cfg *core.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("gemini: config cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, core.ErrMissingAPIKey("gemini")
	}

	return &Client{
		apiKey:  cfg.GeminiAPIKey,
		baseURL: strings.TrimRight(cfg.GeminiAPIBase, "/"),
		http:    core.GetDefaultHTTPClient(cfg),
	}, nil
}

// NewClientWithHTTPClient creates a client against an explicit endpoint and
// HTTP client. This is useful for testing against httptest servers.
func NewClientWithHTTPClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ImageResult is the outcome of a successful image generation call.
type ImageResult struct {
	// Data is the decoded image bytes.
	Data []byte

	// MIMEType is the image MIME type as reported by the model,
	// typically "image/png".
	MIMEType string

	// Text collects any text parts the model returned alongside the
	// image, joined in order. Often empty.
	Text string

	// Usage is the token accounting for the call, nil if the API did
	// not report any.
	Usage *UsageMetadata

	// ModelVersion is the concrete model version that served the call.
	ModelVersion string
}

// InputImage is a conditioning image attached to a generation request,
// already base64-encoded for the wire.
type InputImage struct {
	MIMEType string
	Data     string
}

// GenerateImage asks the model for an image.
//
// The request carries the images first and the prompt text last, matching
// the part order the API documents for image editing. Candidates are
// scanned in order and the first part holding inline data wins; any text
// parts are collected into ImageResult.Text for logging.
//
// Error cases:
//   - non-2xx replies become a *ServiceError with the API's detail
//   - transport failures are wrapped and returned as-is
//   - a 2xx reply with no image part returns ErrNoImage
func (c *Client) GenerateImage(ctx context.Context, model, prompt string, images []InputImage) (*ImageResult, error) {
	if prompt == "" {
		return nil, fmt.Errorf("gemini: prompt cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini: model cannot be empty")
	}

	parts := make([]Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, Part{InlineData: &InlineData{
			MIMEType: img.MIMEType,
			Data:     img.Data,
		}})
	}
	parts = append(parts, Part{Text: prompt})

	reqBody := GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	respBody, err := c.post(ctx, model, &reqBody)
	if err != nil {
		return nil, err
	}

	return extractImage(respBody)
}

// post sends the request and decodes either the success body or the error
// envelope.
func (c *Client) post(ctx context.Context, model string, body *GenerateContentRequest) (*GenerateContentResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := &ServiceError{HTTPStatus: resp.StatusCode}
		var envelope apiErrorResponse
		if json.Unmarshal(raw, &envelope) == nil {
			svcErr.Code = envelope.Error.Code
			svcErr.Status = envelope.Error.Status
			svcErr.Message = envelope.Error.Message
		}
		return nil, svcErr
	}

	var decoded GenerateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}
	return &decoded, nil
}

// extractImage walks every candidate's parts: text parts accumulate across
// candidates, the first inline-data part anywhere becomes the image.
func extractImage(resp *GenerateContentResponse) (*ImageResult, error) {
	result := &ImageResult{
		Usage:        resp.UsageMetadata,
		ModelVersion: resp.ModelVersion,
	}

	var texts []string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
			if result.Data == nil && part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("gemini: failed to decode image data: %w", err)
				}
				result.Data = data
				result.MIMEType = part.InlineData.MIMEType
			}
		}
	}
	result.Text = strings.Join(texts, "\n")

	if result.Data == nil {
		return nil, ErrNoImage
	}
	return result, nil
}
