// provider.go defines the Provider interface and the neutral request and
// result types every image backend shares.
package imagegen

import "context"

// Request describes one image generation call in provider-neutral terms.
type Request struct {
	// Prompt is the text description of the image to generate (required).
	Prompt string

	// EditPath, when set, names an existing image the model should edit
	// instead of generating from scratch.
	EditPath string

	// RefPaths name style or content reference images attached after the
	// edit image and before the prompt.
	RefPaths []string
}

// HasInputImages reports whether the request carries any conditioning
// images.
func (r *Request) HasInputImages() bool {
	return r.EditPath != "" || len(r.RefPaths) > 0
}

// Usage is provider-neutral token accounting. Providers that do not report
// usage leave it nil on the result.
type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// Result is the outcome of a generation call. Exactly one of Data or URL is
// set: Gemini returns inline bytes, DALL-E returns a temporary URL that the
// Downloader must fetch promptly.
type Result struct {
	// Data is the raw image bytes, when the provider returns them inline.
	Data []byte

	// MIMEType describes Data. Empty when URL is set.
	MIMEType string

	// URL is a temporary download location, when the provider hosts the
	// result instead of returning bytes.
	URL string

	// ModelText is any commentary the model produced alongside the image.
	ModelText string

	// Usage is token accounting, nil if the provider reported none.
	Usage *Usage

	// ModelVersion is the concrete model version that served the call,
	// when the provider reports one.
	ModelVersion string
}

// Provider is the interface for image generation backends.
//
// Each provider (Gemini, OpenAI) implements this interface to allow
// swappable backends. Persisting the result to disk is handled separately
// by the Generator organism.
type Provider interface {
	// Generate creates an image for the request. The context can be used
	// for cancellation and timeout control.
	Generate(ctx context.Context, req Request) (*Result, error)

	// Name identifies the provider in logs and history records.
	Name() string

	// Model returns the configured model identifier.
	Model() string
}
