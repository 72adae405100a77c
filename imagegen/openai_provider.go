// openai_provider.go implements the OpenAIProvider molecule that generates
// images using the OpenAI DALL-E API.
//
// This molecule composes:
//   - core.Config: for API configuration
//   - go-openai client: for API calls
package imagegen

import (
	"context"
	"fmt"
	"strings"

	"spritegen/core"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider for OpenAI DALL-E image generation.
//
// DALL-E returns a temporary URL rather than inline bytes; the Generator
// pairs this provider with a Downloader. Conditioning images are not
// supported on this path, so requests carrying them are rejected up front.
//
// Thread Safety: OpenAIProvider is safe for concurrent use.
// The underlying OpenAI client handles connection pooling.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAI-backed image provider.
//
// The model comes from the config when it names a DALL-E or gpt-image
// model; a Gemini model name left over from the default config falls back
// to dall-e-3.
func NewOpenAIProvider(cfg *core.Config) (*OpenAIProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("imagegen: config cannot be nil")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, core.ErrMissingAPIKey("openai")
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIAPIBase != "" {
		clientConfig.BaseURL = cfg.OpenAIAPIBase
	}
	clientConfig.HTTPClient = core.GetDefaultHTTPClient(cfg)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  openAIModel(cfg.Model),
	}, nil
}

// openAIModel picks a usable DALL-E model name. The shared Model config
// field defaults to a Gemini model, which the OpenAI API would reject.
func openAIModel(configured string) string {
	lower := strings.ToLower(configured)
	if strings.HasPrefix(lower, "dall-e") || strings.HasPrefix(lower, "gpt-image") {
		return configured
	}
	return openai.CreateImageModelDallE3
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// Model returns the DALL-E model in use.
func (p *OpenAIProvider) Model() string { return p.model }

// Generate implements Provider. The result carries a temporary URL; the
// caller must download it promptly, OpenAI expires them after about an
// hour.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("imagegen: prompt cannot be empty")
	}
	if req.HasInputImages() {
		return nil, fmt.Errorf("imagegen: the openai provider does not support edit or reference images; use the gemini provider")
	}

	response, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.model,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: OpenAI image generation failed: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("imagegen: OpenAI returned empty Data array")
	}
	if response.Data[0].URL == "" {
		return nil, fmt.Errorf("imagegen: OpenAI returned empty image URL")
	}

	return &Result{
		URL:       response.Data[0].URL,
		ModelText: response.Data[0].RevisedPrompt,
	}, nil
}

// Ensure OpenAIProvider implements Provider interface at compile time.
var _ Provider = (*OpenAIProvider)(nil)
