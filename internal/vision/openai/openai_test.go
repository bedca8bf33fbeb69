package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/glowreader/internal/vision"
)

var testPrompt = vision.Prompt{
	Instruction: "You are Aura.",
	Image:       []byte{0x89, 0x50, 0x4E, 0x47},
	MIMEType:    "image/png",
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": finish,
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestOpenAIAnalyze(t *testing.T) {
	var gotImageURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var req struct {
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, part := range req.Messages[0].Content {
			if part.Type == "image_url" {
				gotImageURL = part.ImageURL.URL
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("# Your Look", "stop"))
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer("sk-test", "", server.URL+"/v1")

	result, err := analyzer.Analyze(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "# Your Look", result.RawResponse)
	assert.Equal(t, DefaultModel, result.Model)
	assert.Equal(t, "data:image/png;base64,iVBORw==", gotImageURL)
}

func TestOpenAIAnalyzeContentFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("", "content_filter"))
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer("sk-test", "gpt-4o", server.URL+"/v1")

	_, err := analyzer.Analyze(context.Background(), testPrompt)
	assert.ErrorIs(t, err, vision.ErrBlocked)
}

func TestOpenAIAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	analyzer := NewOpenAIAnalyzer("sk-test", "gpt-4o", server.URL+"/v1")

	_, err := analyzer.Analyze(context.Background(), testPrompt)
	assert.Error(t, err)
}
