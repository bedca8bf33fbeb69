package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/glowreader/internal/vision"
)

var testPrompt = vision.Prompt{
	Instruction: "You are Aura.",
	Image:       []byte{0xFF, 0xD8},
	MIMEType:    "image/jpeg",
}

func TestClaudeAnalyze(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		resp := map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-3-5-sonnet-latest",
			"stop_reason": "end_turn",
			"content": []map[string]any{
				{"type": "text", "text": "# Analysis\nLooking great"},
			},
			"usage": map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-3-5-sonnet-latest", anthropic.WithBaseURL(server.URL+"/v1"))

	result, err := analyzer.Analyze(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "# Analysis\nLooking great", result.RawResponse)
	assert.Equal(t, "claude-3-5-sonnet-latest", gotBody["model"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
}

func TestClaudeAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-3-5-sonnet-latest", anthropic.WithBaseURL(server.URL+"/v1"))

	_, err := analyzer.Analyze(context.Background(), testPrompt)
	assert.Error(t, err)
}

func TestClaudeAnalyzeNoText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_2","type":"message","role":"assistant","content":[],"usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer server.Close()

	analyzer := NewClaudeAnalyzer("sk-test", "claude-3-5-sonnet-latest", anthropic.WithBaseURL(server.URL+"/v1"))

	_, err := analyzer.Analyze(context.Background(), testPrompt)
	assert.ErrorIs(t, err, vision.ErrEmptyResponse)
}
