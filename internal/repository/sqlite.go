package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wellnest/messaging/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			participant_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			org_scope TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		)`,
		// seq doubles as the rowid; AUTOINCREMENT guarantees it never reuses
		// a value, which makes it a total order over inserts.
		`CREATE TABLE IF NOT EXISTS messages (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			message_id TEXT NOT NULL UNIQUE,
			conversation_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			receiver_id TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendMessage inserts a message and records the assigned sequence number.
func (s *SQLiteStore) AppendMessage(ctx context.Context, message *domain.Message) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, conversation_id, sender_id, receiver_id, text, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID, message.ConversationID, message.SenderID, message.ReceiverID, message.Text, message.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read message seq: %w", err)
	}
	message.Seq = seq
	return nil
}

// ListConversationMessages retrieves the full history of a conversation.
func (s *SQLiteStore) ListConversationMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, message_id, conversation_id, sender_id, receiver_id, text, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, seq ASC`,
		conversationID)
}

// ListParticipantMessages retrieves every message a participant sent or received.
func (s *SQLiteStore) ListParticipantMessages(ctx context.Context, participantID string) ([]domain.Message, error) {
	return s.queryMessages(ctx,
		`SELECT seq, message_id, conversation_id, sender_id, receiver_id, text, created_at
		 FROM messages WHERE sender_id = ? OR receiver_id = ?`,
		participantID, participantID)
}

func (s *SQLiteStore) queryMessages(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		var createdAt int64
		if err := rows.Scan(&msg.Seq, &msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &createdAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// UpsertParticipant creates or replaces a directory entry.
func (s *SQLiteStore) UpsertParticipant(ctx context.Context, participant *domain.Participant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participants (participant_id, name, role, org_scope, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(participant_id) DO UPDATE SET name = excluded.name, role = excluded.role,
		 org_scope = excluded.org_scope, updated_at = excluded.updated_at`,
		participant.ID, participant.Name, string(participant.Role), participant.OrgScope, time.Now().UnixNano())
	return err
}

// GetParticipant retrieves a directory entry.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*domain.Participant, error) {
	var p domain.Participant
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT participant_id, name, role, org_scope FROM participants WHERE participant_id = ?`,
		participantID).Scan(&p.ID, &p.Name, &role, &p.OrgScope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: participant %s", domain.ErrNotFound, participantID)
	}
	if err != nil {
		return nil, err
	}
	p.Kind = domain.KindHuman
	p.Role = domain.Role(role)
	return &p, nil
}
