package llm

import (
	"context"
	"strings"
)

// MockClient answers without a completion endpoint. It is selected with
// LLM_MODE=MOCK for local runs and demos.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// Canned follow-ups keyed by words a student is likely to use.
var mockFollowUps = []struct {
	keywords []string
	reply    string
}{
	{[]string{"sleep", "tired", "insomnia"}, "A short wind-down routine without screens can help. Would you like a few ideas?"},
	{[]string{"exam", "test", "deadline", "grade"}, "Breaking revision into small blocks with breaks often makes it feel lighter."},
	{[]string{"anxious", "anxiety", "panic", "stress"}, "Try breathing in for four counts and out for six, a few times. I'm here with you."},
	{[]string{"lonely", "alone", "friends"}, "Feeling disconnected is common at university. Is there one person you could reach out to today?"},
}

// CreateChatCompletion acknowledges the last user turn and adds a follow-up
// matched on its keywords.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prompt := lastUserTurn(req.Messages)
	reply := "[MOCK] I'm here to listen whenever you're ready."
	if prompt != "" {
		reply = "[MOCK] Thank you for telling me: \"" + truncate(prompt, 100) + "\". " + followUp(prompt)
	}

	return &ChatCompletionResponse{
		ID:      "mock-completion",
		Object:  "chat.completion",
		Model:   req.Model,
		Choices: []Choice{{Message: &ChatMessage{Role: RoleAssistant, Content: reply}, FinishReason: "stop"}},
	}, nil
}

func lastUserTurn(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func followUp(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, f := range mockFollowUps {
		for _, k := range f.keywords {
			if strings.Contains(lower, k) {
				return f.reply
			}
		}
	}
	return "Would you like to tell me more about it?"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
