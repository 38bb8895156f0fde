// Package client provides an HTTP client for the public messaging API and
// the conversation view model used by terminal clients.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wellnest/messaging/internal/domain"
)

// Client is an HTTP client for the public messaging API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new client authenticated with a bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the status code back onto the domain error taxonomy so callers
// can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthorization
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadGateway:
		return domain.ErrUpstream
	}
	return domain.ErrInternal
}

// SendMessage calls POST /v1/messages.
func (c *Client) SendMessage(ctx context.Context, receiverID, text string) (*domain.MessageView, error) {
	var msg domain.MessageView
	req := domain.SendMessageRequest{ReceiverID: receiverID, Text: text}
	if err := c.do(ctx, http.MethodPost, "/v1/messages", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// History calls GET /v1/messages/:peer_id.
func (c *Client) History(ctx context.Context, peerID string) ([]domain.MessageView, error) {
	var resp domain.ListMessagesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/messages/"+url.PathEscape(peerID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Conversations calls GET /v1/conversations.
func (c *Client) Conversations(ctx context.Context) ([]domain.ConversationSummary, error) {
	var resp domain.ListConversationsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/conversations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// AssistantChat calls POST /v1/assistant/chat and returns the reply text.
func (c *Client) AssistantChat(ctx context.Context, prompt, contextText string) (string, error) {
	var resp domain.AssistantChatResponse
	req := domain.AssistantChatRequest{Prompt: prompt, Context: contextText}
	if err := c.do(ctx, http.MethodPost, "/v1/assistant/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach messaging server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody domain.ErrorBody
		if json.Unmarshal(respBody, &errBody) == nil {
			apiErr.Code = errBody.Error.Code
			apiErr.Message = errBody.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is worth retrying without changes.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.StatusCode == http.StatusBadGateway || apiErr.StatusCode >= http.StatusInternalServerError
}
