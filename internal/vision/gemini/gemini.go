package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vbonduro/glowreader/internal/vision"
)

const DefaultModel = "gemini-1.5-flash"

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer dials the Generative Language API with an API key. Extra
// client options are appended after the key (tests use them to swap the
// endpoint).
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiAnalyzer, error) {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (a *GeminiAnalyzer) Close() error {
	return a.client.Close()
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, p vision.Prompt) (*vision.AnalysisResult, error) {
	model := a.client.GenerativeModel(a.model)
	model.SafetySettings = safetySettings(p.Safety)

	resp, err := model.GenerateContent(ctx,
		genai.Text(p.Instruction),
		genai.Blob{MIMEType: vision.NormaliseMIME(p.MIMEType), Data: p.Image},
	)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return nil, fmt.Errorf("gemini: %w: %v", vision.ErrBlocked, err)
		}
		return nil, fmt.Errorf("failed to call gemini: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return &vision.AnalysisResult{RawResponse: text, Model: a.model}, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("gemini: %w", vision.ErrEmptyResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini: %w: prompt %s", vision.ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", vision.ErrEmptyResponse)
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("gemini: %w: candidate finished with %s", vision.ErrBlocked, cand.FinishReason)
	}
	if cand.Content == nil {
		return "", fmt.Errorf("gemini: %w", vision.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		} else {
			slog.Debug("gemini response part was not text", "type", fmt.Sprintf("%T", part))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", vision.ErrEmptyResponse)
	}
	return sb.String(), nil
}

var categories = map[string]genai.HarmCategory{
	"harassment":        genai.HarmCategoryHarassment,
	"hate_speech":       genai.HarmCategoryHateSpeech,
	"sexually_explicit": genai.HarmCategorySexuallyExplicit,
	"dangerous_content": genai.HarmCategoryDangerousContent,
}

var thresholds = map[string]genai.HarmBlockThreshold{
	"low_and_above":    genai.HarmBlockLowAndAbove,
	"medium_and_above": genai.HarmBlockMediumAndAbove,
	"only_high":        genai.HarmBlockOnlyHigh,
	"none":             genai.HarmBlockNone,
}

// safetySettings converts the configured pairs, skipping names the SDK does
// not know.
func safetySettings(in []vision.SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(in))
	for _, s := range in {
		cat, ok := categories[strings.ToLower(s.Category)]
		if !ok {
			slog.Warn("unknown safety category", "category", s.Category)
			continue
		}
		th, ok := thresholds[strings.ToLower(s.Threshold)]
		if !ok {
			slog.Warn("unknown safety threshold", "threshold", s.Threshold)
			continue
		}
		out = append(out, &genai.SafetySetting{Category: cat, Threshold: th})
	}
	return out
}
