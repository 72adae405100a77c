// Package gemini implements a minimal client for the Gemini generateContent
// API, covering the image-output path used by the generation pipeline.
//
// types.go holds the wire types. Everything the API can carry but this tool
// never sends or reads is left out on purpose; the structs are the request
// and response surface, not a full SDK.
package gemini

import "fmt"

// GenerateContentRequest is the JSON body for a generateContent call.
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one conversational turn. This client only ever sends a single
// user turn holding the prompt text and any conditioning images.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single piece of a turn: either text or inline binary data,
// never both.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded binary content with its MIME type.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig selects what modalities the model may answer with.
type GenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

// GenerateContentResponse is the JSON body of a successful generateContent
// reply.
type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// Candidate is one generated answer. The API can return several; every one
// is scanned when extracting the image.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// UsageMetadata reports token accounting for a call.
type UsageMetadata struct {
	PromptTokenCount        int                  `json:"promptTokenCount"`
	CandidatesTokenCount    int                  `json:"candidatesTokenCount"`
	TotalTokenCount         int                  `json:"totalTokenCount"`
	CandidatesTokensDetails []ModalityTokenCount `json:"candidatesTokensDetails,omitempty"`
}

// ModalityTokenCount splits a token count by output modality.
type ModalityTokenCount struct {
	Modality   string `json:"modality"`
	TokenCount int    `json:"tokenCount"`
}

// apiErrorResponse is the error envelope the API wraps non-2xx replies in.
type apiErrorResponse struct {
	Error apiErrorDetail `json:"error"`
}

type apiErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServiceError is a non-2xx reply from the API, carrying whatever detail
// the error envelope held.
type ServiceError struct {
	HTTPStatus int
	Code       int
	Status     string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini: API error %d (%s): %s", e.HTTPStatus, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini: API error %d", e.HTTPStatus)
}

// IsRetryable reports whether the failure is transient. Rate limiting and
// server-side errors qualify; quota and auth problems do not.
func (e *ServiceError) IsRetryable() bool {
	return e.HTTPStatus == 429 || e.HTTPStatus >= 500
}
