package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/domain"
)

func TestUpsertParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.UpsertParticipant(ctx, domain.Participant{ID: "s-100", Name: "Gia", Role: domain.RoleStudent, OrgScope: "uni-a"})
	require.NoError(t, err)
	assert.Equal(t, domain.KindHuman, created.Kind)

	updated, err := env.svc.UpsertParticipant(ctx, domain.Participant{ID: "s-100", Name: "Gia M.", Role: domain.RoleStudent, OrgScope: "uni-a"})
	require.NoError(t, err)
	assert.Equal(t, "Gia M.", updated.Name)

	got, err := env.svc.GetParticipant(ctx, "s-100")
	require.NoError(t, err)
	assert.Equal(t, domain.Human("s-100", "Gia M.", domain.RoleStudent, "uni-a"), *got)
}

func TestUpsertParticipantValidation(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Participant
	}{
		{name: "reserved id", in: domain.Participant{ID: domain.AssistantID, Name: "Bot", Role: domain.RoleStudent}},
		{name: "bad id", in: domain.Participant{ID: "a_b", Name: "X", Role: domain.RoleStudent}},
		{name: "missing name", in: domain.Participant{ID: "s1", Role: domain.RoleStudent}},
		{name: "assistant role", in: domain.Participant{ID: "s1", Name: "X", Role: domain.RoleAssistant}},
		{name: "unknown role", in: domain.Participant{ID: "s1", Name: "X", Role: "janitor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.UpsertParticipant(context.Background(), tt.in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestGetParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assistant, err := env.svc.GetParticipant(ctx, domain.AssistantID)
	require.NoError(t, err)
	assert.True(t, assistant.IsAssistant())
	assert.Equal(t, "Wellness Assistant", assistant.Name)

	_, err = env.svc.GetParticipant(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.svc.GetParticipant(ctx, "not valid")
	require.ErrorIs(t, err, domain.ErrValidation)
}
