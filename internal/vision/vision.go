package vision

import (
	"context"
	"errors"
)

// ErrBlocked is returned when the backend refuses to answer on content-safety
// grounds.
var ErrBlocked = errors.New("response blocked by content-safety policy")

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// SafetySetting is a category/threshold pair. Backends without a safety API
// ignore it.
type SafetySetting struct {
	Category  string
	Threshold string
}

// Prompt is a single multi-part prompt: instruction text plus one inlined
// image.
type Prompt struct {
	Instruction string
	Image       []byte
	MIMEType    string
	Safety      []SafetySetting
}

// VisionAnalyzer sends a prompt to a hosted multimodal model and returns its
// free text answer.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, p Prompt) (*AnalysisResult, error)
}

type AnalysisResult struct {
	RawResponse string
	Model       string
}

// NormaliseMIME maps browser MIME types to the set hosted vision APIs accept.
// Unknown types are coerced to jpeg.
func NormaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
