// Package client submits analyses to a running relay and tracks the
// submission lifecycle for the terminal front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vbonduro/glowreader/internal/domain"
)

// APIError is a non-200 answer from the relay.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the relay at baseURL. A nil httpClient gets one
// without a timeout; callers bound a submission through its context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Analyze posts req as a multipart form to /api/vision.
func (c *Client) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/vision", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}

	var out domain.AnalysisResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode relay response: %w", err)
	}
	return &out, nil
}

func encodeForm(req *domain.AnalysisRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if err := w.WriteField("mode", string(req.Mode)); err != nil {
		return nil, "", fmt.Errorf("failed to write mode: %w", err)
	}
	for _, name := range req.Mode.Fields() {
		if err := w.WriteField(name, req.Field(name)); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if len(req.Image) > 0 {
		fw, err := w.CreateFormFile("photo", "photo")
		if err != nil {
			return nil, "", fmt.Errorf("failed to create photo part: %w", err)
		}
		if _, err := fw.Write(req.Image); err != nil {
			return nil, "", fmt.Errorf("failed to write photo: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
