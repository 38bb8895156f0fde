// Package store defines the message log and participant directory storage.
package store

import (
	"context"

	"github.com/wellnest/messaging/internal/domain"
)

// Store is the append-only message log plus the participant directory.
type Store interface {
	// AppendMessage inserts message and assigns its Seq. It never updates an
	// existing row.
	AppendMessage(ctx context.Context, message *domain.Message) error
	// ListConversationMessages returns every message of a conversation ordered
	// by creation time, then sequence.
	ListConversationMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
	// ListParticipantMessages returns every message sent or received by
	// participantID, in no particular order.
	ListParticipantMessages(ctx context.Context, participantID string) ([]domain.Message, error)

	// Participant directory
	UpsertParticipant(ctx context.Context, participant *domain.Participant) error
	// GetParticipant returns domain.ErrNotFound for unknown ids.
	GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error)

	// Lifecycle
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)
