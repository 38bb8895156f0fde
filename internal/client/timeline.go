package client

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/wellnest/messaging/internal/domain"
)

// Direction tells whether a row was written by the local participant.
type Direction string

const (
	DirectionOwn  Direction = "own"
	DirectionPeer Direction = "peer"
)

// EchoState is the lifecycle of an optimistic echo.
type EchoState string

const (
	EchoPending   EchoState = "pending"
	EchoConfirmed EchoState = "confirmed"
	EchoFailed    EchoState = "failed"
)

// Row is one rendered line of a conversation.
type Row struct {
	// ID is the server id, or the temporary id of an unconfirmed echo.
	ID        string
	Direction Direction
	Text      string
	CreatedAt time.Time
	// State is empty for rows that came from server history.
	State  EchoState
	Reason string
}

type localEcho struct {
	tempID    string
	serverID  string
	text      string
	createdAt time.Time
	state     EchoState
	reason    string
}

// Timeline merges server history for one (self, peer) conversation with the
// optimistic echoes of messages the local participant is sending.
type Timeline struct {
	mu      sync.Mutex
	selfID  string
	peerID  string
	history []domain.MessageView
	echoes  []*localEcho
	now     func() time.Time
}

// NewTimeline creates an empty timeline.
func NewTimeline(selfID, peerID string) *Timeline {
	return &Timeline{selfID: selfID, peerID: peerID, now: time.Now}
}

// PeerID returns the other participant of the conversation.
func (t *Timeline) PeerID() string {
	return t.peerID
}

// Classify returns DirectionOwn when m was sent by self. Identity is decided
// by the sender id alone.
func (t *Timeline) Classify(m domain.MessageView) Direction {
	if m.Sender.ID == t.selfID {
		return DirectionOwn
	}
	return DirectionPeer
}

// Echo records a pending send and returns its temporary id.
func (t *Timeline) Echo(text string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := &localEcho{
		tempID:    "tmp-" + uuid.New().String(),
		text:      text,
		createdAt: t.now(),
		state:     EchoPending,
	}
	t.echoes = append(t.echoes, e)
	return e.tempID
}

// Confirm moves a pending echo to confirmed with the server's message.
func (t *Timeline) Confirm(tempID string, msg domain.MessageView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e := t.pending(tempID); e != nil {
		e.state = EchoConfirmed
		e.serverID = msg.ID
		e.text = msg.Text
		e.createdAt = msg.CreatedAt
	}
}

// Fail moves a pending echo to failed.
func (t *Timeline) Fail(tempID, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e := t.pending(tempID); e != nil {
		e.state = EchoFailed
		e.reason = reason
	}
}

func (t *Timeline) pending(tempID string) *localEcho {
	e, ok := lo.Find(t.echoes, func(e *localEcho) bool {
		return e.tempID == tempID
	})
	if !ok || e.state != EchoPending {
		return nil
	}
	return e
}

// Reconcile replaces the authoritative history. Confirmed echoes that the
// history now contains are dropped. A pending echo whose send completed on
// the server before its response arrived is matched to the first new own
// message with the same text and dropped as well; a later Confirm for it is
// a no-op.
func (t *Timeline) Reconcile(history []domain.MessageView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := lo.SliceToMap(t.history, func(m domain.MessageView) (string, struct{}) {
		return m.ID, struct{}{}
	})
	t.history = append([]domain.MessageView(nil), history...)

	claimed := make(map[string]struct{}, len(t.echoes))
	for _, e := range t.echoes {
		if e.state == EchoConfirmed {
			claimed[e.serverID] = struct{}{}
		}
	}
	for _, e := range t.echoes {
		if e.state != EchoPending {
			continue
		}
		m, ok := lo.Find(t.history, func(m domain.MessageView) bool {
			_, seen := previous[m.ID]
			_, taken := claimed[m.ID]
			return !seen && !taken &&
				t.Classify(m) == DirectionOwn &&
				m.Text == strings.TrimSpace(e.text)
		})
		if !ok {
			continue
		}
		claimed[m.ID] = struct{}{}
		e.state = EchoConfirmed
		e.serverID = m.ID
	}

	known := lo.SliceToMap(t.history, func(m domain.MessageView) (string, struct{}) {
		return m.ID, struct{}{}
	})
	t.echoes = lo.Reject(t.echoes, func(e *localEcho, _ int) bool {
		_, ok := known[e.serverID]
		return e.state == EchoConfirmed && ok
	})
}

// Rows renders history followed by outstanding echoes in send order. A
// logical message is never shown twice.
func (t *Timeline) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]Row, 0, len(t.history)+len(t.echoes))
	for _, m := range t.history {
		rows = append(rows, Row{
			ID:        m.ID,
			Direction: t.Classify(m),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		})
	}

	local := make([]Row, 0, len(t.echoes))
	for _, e := range t.echoes {
		id := e.tempID
		if e.state == EchoConfirmed {
			id = e.serverID
		}
		local = append(local, Row{
			ID:        id,
			Direction: DirectionOwn,
			Text:      e.text,
			CreatedAt: e.createdAt,
			State:     e.state,
			Reason:    e.reason,
		})
	}

	return lo.UniqBy(append(rows, local...), func(r Row) string {
		return r.ID
	})
}
