package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/vbonduro/glowreader/internal/vision"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 2048
)

type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer builds a client for apiKey. baseURL overrides the API root
// when non-empty.
func NewOpenAIAnalyzer(apiKey, model, baseURL string) *OpenAIAnalyzer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIAnalyzer{client: openai.NewClientWithConfig(cfg), model: model}
}

// dataURL inlines the image the way the chat completions API expects.
func dataURL(p vision.Prompt) string {
	return "data:" + vision.NormaliseMIME(p.MIMEType) + ";base64," + base64.StdEncoding.EncodeToString(p.Image)
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, p vision.Prompt) (*vision.AnalysisResult, error) {
	req := openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: p.Instruction},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL(p),
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: %w", vision.ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return nil, fmt.Errorf("openai: %w", vision.ErrBlocked)
	}
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("openai: %w: %s", vision.ErrBlocked, choice.Message.Refusal)
	}
	if choice.Message.Content == "" {
		return nil, fmt.Errorf("openai: %w", vision.ErrEmptyResponse)
	}

	return &vision.AnalysisResult{RawResponse: choice.Message.Content, Model: a.model}, nil
}
