// gemini_provider.go implements the GeminiProvider molecule that generates
// images through the Gemini generateContent API.
//
// This molecule composes:
//   - atoms.go: EncodeImageFile for conditioning images
//   - gemini.Client: for API calls
//   - core.Config: for API configuration
package imagegen

import (
	"context"
	"fmt"

	"spritegen/core"
	"spritegen/gemini"
)

// GeminiProvider implements Provider on top of the Gemini image models.
//
// Unlike DALL-E, Gemini returns image bytes inline and accepts conditioning
// images, so both editing and reference images are supported.
//
// Thread Safety: GeminiProvider is safe for concurrent use.
type GeminiProvider struct {
	client *gemini.Client
	model  string
}

// NewGeminiProvider creates a Gemini-backed image provider.
//
// Returns an error if the config is nil or the Gemini API key is missing.
func NewGeminiProvider(cfg *core.Config) (*GeminiProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	client, err := gemini.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, model: cfg.Model}, nil
}

// NewGeminiProviderWithClient wraps an existing client. This is useful for
// testing against httptest servers.
func NewGeminiProviderWithClient(client *gemini.Client, model string) *GeminiProvider {
	return &GeminiProvider{client: client, model: model}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Model returns the configured model identifier.
func (p *GeminiProvider) Model() string { return p.model }

// Generate implements Provider.
//
// Conditioning images go on the wire in a fixed order: the edit image
// first, then reference images, then the prompt text. Each image is read
// from disk and base64-encoded at call time; a missing file fails the call
// before any API traffic.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}

	var inputs []gemini.InputImage
	appendImage := func(path string) error {
		data, mimeType, err := EncodeImageFile(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, gemini.InputImage{MIMEType: mimeType, Data: data})
		return nil
	}

	if req.EditPath != "" {
		if err := appendImage(req.EditPath); err != nil {
			return nil, err
		}
	}
	for _, ref := range req.RefPaths {
		if err := appendImage(ref); err != nil {
			return nil, err
		}
	}

	img, err := p.client.GenerateImage(ctx, p.model, req.Prompt, inputs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Data:         img.Data,
		MIMEType:     img.MIMEType,
		ModelText:    img.Text,
		ModelVersion: img.ModelVersion,
	}
	if img.Usage != nil {
		result.Usage = &Usage{
			PromptTokens: img.Usage.PromptTokenCount,
			OutputTokens: img.Usage.CandidatesTokenCount,
			TotalTokens:  img.Usage.TotalTokenCount,
		}
	}
	return result, nil
}

// Ensure GeminiProvider implements Provider interface at compile time.
var _ Provider = (*GeminiProvider)(nil)
