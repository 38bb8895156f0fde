// Package domain defines the core domain models for the messaging service.
package domain

import "time"

// Text limits for a single message, counted in code points.
const (
	MinTextLength = 1
	MaxTextLength = 1000
)

// Message is an immutable entry of the append-only message log.
type Message struct {
	ID             string
	SenderID       string
	ReceiverID     string
	Text           string
	ConversationID string
	CreatedAt      time.Time
	// Seq is assigned by the store on insert and is strictly increasing.
	Seq int64
}

// Peer returns the other participant of the message as seen by self.
func (m Message) Peer(self string) string {
	if m.SenderID == self {
		return m.ReceiverID
	}
	return m.SenderID
}

// After reports whether m was appended after other, ordering by creation
// time and then by sequence number.
func (m Message) After(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.After(other.CreatedAt)
	}
	return m.Seq > other.Seq
}

// ParticipantRef is the display projection of a participant.
type ParticipantRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// MessageView is the wire shape of a message enriched with display data.
type MessageView struct {
	ID             string         `json:"id"`
	Sender         ParticipantRef `json:"senderId"`
	Receiver       ParticipantRef `json:"receiverId"`
	Text           string         `json:"text"`
	ConversationID string         `json:"conversationId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NewMessageView enriches m with its participants. Messages are immutable,
// so UpdatedAt always equals CreatedAt.
func NewMessageView(m Message, sender, receiver Participant) MessageView {
	return MessageView{
		ID:             m.ID,
		Sender:         sender.Ref(),
		Receiver:       receiver.Ref(),
		Text:           m.Text,
		ConversationID: m.ConversationID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.CreatedAt,
	}
}

// ConversationSummary is one row of a participant's conversation list.
type ConversationSummary struct {
	Peer          ParticipantRef `json:"peer"`
	LastMessage   string         `json:"lastMessage"`
	LastMessageAt time.Time      `json:"lastMessageAt"`
}
