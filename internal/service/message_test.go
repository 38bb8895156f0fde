package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/domain"
)

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.svc.SendMessage(ctx, "u1", "u2", "  hello there  ")
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "hello there", view.Text)
	assert.Equal(t, "u1_u2", view.ConversationID)
	assert.Equal(t, domain.ParticipantRef{ID: "u1", Name: "Ana", Role: domain.RoleStudent}, view.Sender)
	assert.Equal(t, domain.ParticipantRef{ID: "u2", Name: "Ben", Role: domain.RoleCounselor}, view.Receiver)
	assert.True(t, view.CreatedAt.Equal(baseTime))
	assert.Equal(t, view.CreatedAt, view.UpdatedAt)

	stored, err := env.store.ListConversationMessages(ctx, "u1_u2")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, view.ID, stored[0].ID)
}

func TestSendMessageRejections(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		receiver string
		text     string
		wantErr  error
	}{
		{name: "empty text", sender: "u1", receiver: "u2", text: "", wantErr: domain.ErrValidation},
		{name: "whitespace only", sender: "u1", receiver: "u2", text: " \n\t ", wantErr: domain.ErrValidation},
		{name: "too long", sender: "u1", receiver: "u2", text: strings.Repeat("a", 1001), wantErr: domain.ErrValidation},
		{name: "self message", sender: "u1", receiver: "u1", text: "hi", wantErr: domain.ErrValidation},
		{name: "malformed receiver", sender: "u1", receiver: "u_2", text: "hi", wantErr: domain.ErrValidation},
		{name: "empty receiver", sender: "u1", receiver: "", text: "hi", wantErr: domain.ErrValidation},
		{name: "unknown receiver", sender: "u1", receiver: "ghost", text: "hi", wantErr: domain.ErrNotFound},
		{name: "unknown sender", sender: "ghost", receiver: "u2", text: "hi", wantErr: domain.ErrNotFound},
		{name: "student to student", sender: "u1", receiver: "u4", text: "hi", wantErr: domain.ErrAuthorization},
		{name: "admin to student", sender: "adm", receiver: "u1", text: "hi", wantErr: domain.ErrAuthorization},
		{name: "different organizations", sender: "u1", receiver: "u3", text: "hi", wantErr: domain.ErrAuthorization},
		{name: "to assistant", sender: "u1", receiver: domain.AssistantID, text: "hi", wantErr: domain.ErrAuthorization},
		{name: "from assistant", sender: domain.AssistantID, receiver: "u1", text: "hi", wantErr: domain.ErrAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			view, err := env.svc.SendMessage(ctx, tt.sender, tt.receiver, tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, view)

			for _, id := range []string{"u1", "u2", "ghost", domain.AssistantID} {
				msgs, err := env.store.ListParticipantMessages(ctx, id)
				require.NoError(t, err)
				assert.Empty(t, msgs, "rejected send must not write")
			}
		})
	}
}

func TestSendMessageAcceptsMaxLengthMultibyte(t *testing.T) {
	env := newTestEnv(t)

	text := strings.Repeat("é", domain.MaxTextLength)
	view, err := env.svc.SendMessage(context.Background(), "u2", "u1", text)
	require.NoError(t, err)
	assert.Equal(t, text, view.Text)
}

func TestSendMessageCounselorWithoutOrganization(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.SendMessage(context.Background(), "u1", "c9", "hi")
	require.NoError(t, err)
}

func TestGetHistoryOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.SendMessage(ctx, "u1", "u2", "first")
	require.NoError(t, err)
	// Same timestamp: insert order decides.
	second, err := env.svc.SendMessage(ctx, "u2", "u1", "second")
	require.NoError(t, err)
	env.advance(time.Second)
	third, err := env.svc.SendMessage(ctx, "u1", "u2", "third")
	require.NoError(t, err)

	forward, err := env.svc.GetHistory(ctx, "u1", "u2")
	require.NoError(t, err)
	backward, err := env.svc.GetHistory(ctx, "u2", "u1")
	require.NoError(t, err)

	ids := func(views []domain.MessageView) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, ids(forward))
	assert.Equal(t, ids(forward), ids(backward))
	assert.Equal(t, "Ben", forward[1].Sender.Name)
	assert.Equal(t, "Ana", forward[1].Receiver.Name)
}

func TestGetHistoryEmpty(t *testing.T) {
	env := newTestEnv(t)

	history, err := env.svc.GetHistory(context.Background(), "u1", "u3")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestGetHistoryValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetHistory(context.Background(), "u1", "u1")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.svc.GetHistory(context.Background(), "u1", "bad id")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetHistoryRendersUnknownParticipantByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.AppendMessage(ctx, &domain.Message{
		ID:             "legacy-1",
		SenderID:       "former",
		ReceiverID:     "u1",
		Text:           "old note",
		ConversationID: domain.ResolveConversationID("former", "u1"),
		CreatedAt:      baseTime,
	}))

	history, err := env.svc.GetHistory(ctx, "u1", "former")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ParticipantRef{ID: "former"}, history[0].Sender)
}
