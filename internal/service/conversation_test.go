package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/domain"
)

func TestListConversations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.SendMessage(ctx, "u1", "u2", "hi Ben")
	require.NoError(t, err)
	env.advance(time.Minute)
	_, err = env.svc.SendMessage(ctx, "c9", "u1", "hello from Eli")
	require.NoError(t, err)
	env.advance(time.Minute)
	_, err = env.svc.SendMessage(ctx, "u2", "u1", "reply from Ben")
	require.NoError(t, err)

	summaries, err := env.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, domain.ParticipantRef{ID: "u2", Name: "Ben", Role: domain.RoleCounselor}, summaries[0].Peer)
	assert.Equal(t, "reply from Ben", summaries[0].LastMessage)
	assert.True(t, summaries[0].LastMessageAt.Equal(baseTime.Add(2*time.Minute)))

	assert.Equal(t, "c9", summaries[1].Peer.ID)
	assert.Equal(t, "hello from Eli", summaries[1].LastMessage)

	counselor, err := env.svc.ListConversations(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, counselor, 1)
	assert.Equal(t, "u1", counselor[0].Peer.ID)
}

func TestListConversationsTieBreaksBySeq(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.SendMessage(ctx, "u1", "u2", "one")
	require.NoError(t, err)
	_, err = env.svc.SendMessage(ctx, "u1", "c9", "two")
	require.NoError(t, err)
	_, err = env.svc.SendMessage(ctx, "u2", "u1", "three")
	require.NoError(t, err)

	summaries, err := env.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "u2", summaries[0].Peer.ID)
	assert.Equal(t, "three", summaries[0].LastMessage)
	assert.Equal(t, "c9", summaries[1].Peer.ID)
}

func TestListConversationsIncludesAssistant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.AIChat(ctx, "u1", "I feel stressed", "")
	require.NoError(t, err)

	summaries, err := env.svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.ParticipantRef{ID: domain.AssistantID, Name: "Wellness Assistant", Role: domain.RoleAssistant}, summaries[0].Peer)
	assert.Equal(t, env.llm.reply, summaries[0].LastMessage)
}

func TestListConversationsEmpty(t *testing.T) {
	env := newTestEnv(t)

	summaries, err := env.svc.ListConversations(context.Background(), "u4")
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)

	_, err = env.svc.ListConversations(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrValidation)
}
