package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/wellnest/messaging/internal/domain"
)

// Key layout:
//
//	msg:{conversation}:{created_at padded}:{seq padded}  -> message
//	pmsg:{participant}:{seq padded}                     -> message (one per side)
//	participant:{id}                                    -> participant
//
// Zero padding to 19 digits keeps lexicographic key order equal to numeric
// order, so a prefix scan over msg:{conversation}: yields history in order.
const (
	messageKeyPrefix     = "msg:"
	participantMsgPrefix = "pmsg:"
	participantKeyPrefix = "participant:"
	sequenceKey          = "seq:messages"
	sequenceBandwidth    = 128
)

// BadgerStore implements Store on an embedded Badger key-value database.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) a Badger database at path. An empty path
// opens an in-memory database.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open message sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// Close releases the sequence lease and closes the database.
func (s *BadgerStore) Close() error {
	releaseErr := s.seq.Release()
	closeErr := s.db.Close()
	return errors.Join(releaseErr, closeErr)
}

type diskMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id"`
	Text           string `json:"text"`
	CreatedAt      int64  `json:"created_at"`
	Seq            int64  `json:"seq"`
}

func fromDomainMessage(m *domain.Message) diskMessage {
	return diskMessage{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt.UnixNano(),
		Seq:            m.Seq,
	}
}

func (d diskMessage) toDomain() domain.Message {
	return domain.Message{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		ReceiverID:     d.ReceiverID,
		Text:           d.Text,
		CreatedAt:      time.Unix(0, d.CreatedAt).UTC(),
		Seq:            d.Seq,
	}
}

// AppendMessage writes the message and both participant index entries in a
// single transaction.
func (s *BadgerStore) AppendMessage(ctx context.Context, message *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next message seq: %w", err)
	}
	seq := int64(next) + 1

	stored := *message
	stored.Seq = seq
	value, err := json.Marshal(fromDomainMessage(&stored))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		keys := []string{
			fmt.Sprintf("%s%s:%019d:%019d", messageKeyPrefix, stored.ConversationID, stored.CreatedAt.UnixNano(), seq),
			fmt.Sprintf("%s%s:%019d", participantMsgPrefix, stored.SenderID, seq),
			fmt.Sprintf("%s%s:%019d", participantMsgPrefix, stored.ReceiverID, seq),
		}
		for _, k := range keys {
			if err := txn.Set([]byte(k), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	message.Seq = seq
	return nil
}

// ListConversationMessages scans msg:{conversation}: in key order.
func (s *BadgerStore) ListConversationMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.scanMessages(ctx, messageKeyPrefix+conversationID+":")
}

// ListParticipantMessages scans the participant index.
func (s *BadgerStore) ListParticipantMessages(ctx context.Context, participantID string) ([]domain.Message, error) {
	return s.scanMessages(ctx, participantMsgPrefix+participantID+":")
}

func (s *BadgerStore) scanMessages(ctx context.Context, prefix string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := []domain.Message{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var d diskMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			})
			if err != nil {
				return err
			}
			messages = append(messages, d.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// UpsertParticipant creates or replaces a directory entry.
func (s *BadgerStore) UpsertParticipant(ctx context.Context, participant *domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(participant)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(participantKeyPrefix+participant.ID), value)
	})
}

// GetParticipant retrieves a directory entry.
func (s *BadgerStore) GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var p domain.Participant
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(participantKeyPrefix + participantID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: participant %s", domain.ErrNotFound, participantID)
	}
	if err != nil {
		return nil, err
	}
	p.Kind = domain.KindHuman
	return &p, nil
}
