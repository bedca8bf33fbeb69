package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/glowreader/internal/vision"
)

// maxTokens leaves room for the fenced JSON block plus a long markdown write-up.
const maxTokens = 2048

type ClaudeAnalyzer struct {
	client *anthropic.Client
	model  string
}

func NewClaudeAnalyzer(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeAnalyzer {
	return &ClaudeAnalyzer{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// buildMessages constructs the single user turn: the image first, then the
// instruction, which is the order the Messages API recommends for vision.
func buildMessages(p vision.Prompt) []anthropic.Message {
	return []anthropic.Message{{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				vision.NormaliseMIME(p.MIMEType),
				base64.StdEncoding.EncodeToString(p.Image),
			)),
			anthropic.NewTextMessageContent(p.Instruction),
		},
	}}
}

func (a *ClaudeAnalyzer) Analyze(ctx context.Context, p vision.Prompt) (*vision.AnalysisResult, error) {
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(p),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	var sb strings.Builder
	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			sb.WriteString(blk.GetText())
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("claude: %w", vision.ErrEmptyResponse)
	}

	return &vision.AnalysisResult{RawResponse: sb.String(), Model: a.model}, nil
}
