package domain

// SendMessageRequest is the body of POST /v1/messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// ListMessagesResponse is the body returned by GET /v1/messages/:peer_id.
type ListMessagesResponse struct {
	Messages []MessageView `json:"messages"`
}

// ListConversationsResponse is the body returned by GET /v1/conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

// AssistantChatRequest is the body of POST /v1/assistant/chat.
type AssistantChatRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

// AssistantChatResponse carries the assistant reply text.
type AssistantChatResponse struct {
	Reply string `json:"reply"`
}

// UpsertParticipantRequest is the body of PUT /internal/participants/:participant_id.
type UpsertParticipantRequest struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	OrgScope string `json:"orgScope,omitempty"`
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
