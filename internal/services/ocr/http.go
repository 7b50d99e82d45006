package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPExtractor talks to a remote vision/OCR endpoint: it posts the encoded
// artifact as base64 JSON and reads back the recognized text.
type HTTPExtractor struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewHTTPExtractor(endpoint, apiKey, model string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExtractor{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	Image string `json:"image"`
	Model string `json:"model,omitempty"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	payload, err := json.Marshal(extractRequest{
		Image: base64.StdEncoding.EncodeToString(imageData),
		Model: e.model,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read ocr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr endpoint returned status %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode ocr response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ocr engine error: %s", out.Error)
	}
	return out.Text, nil
}

func (e *HTTPExtractor) ExtractTextFromFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return e.ExtractText(ctx, data)
}

func (e *HTTPExtractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
