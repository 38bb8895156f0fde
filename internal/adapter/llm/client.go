package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const completionsPath = "/v1/chat/completions"

// StatusError is a non-200 answer from the completion endpoint.
type StatusError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("completion endpoint returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion endpoint returned %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

// Unauthorized reports whether the endpoint rejected the configured key.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a completion client. timeout bounds every request on top
// of the caller's context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(baseURL, "/") + completionsPath,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateChatCompletion requests one non-streaming completion.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}
	payload := *req
	payload.Stream = false

	status, body, err := c.post(ctx, &payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeStatusError(status, body)
	}

	var out ChatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, payload *ChatCompletionRequest) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode completion request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("completion endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read completion: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decodeStatusError(status int, body []byte) *StatusError {
	statusErr := &StatusError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
		statusErr.Type = errResp.Error.Type
		statusErr.Message = errResp.Error.Message
	}
	return statusErr
}
