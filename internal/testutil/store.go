// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/wellnest/messaging/internal/config"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/repository"
)

// Directory is the participant fixture seeded by SeedDirectory.
//
//	u1  student    uni-a
//	u2  counselor  uni-a
//	u3  counselor  uni-b
//	u4  student    uni-a
//	c9  counselor  (no organization)
//	adm admin      uni-a
var Directory = []domain.Participant{
	domain.Human("u1", "Ana", domain.RoleStudent, "uni-a"),
	domain.Human("u2", "Ben", domain.RoleCounselor, "uni-a"),
	domain.Human("u3", "Cleo", domain.RoleCounselor, "uni-b"),
	domain.Human("u4", "Dev", domain.RoleStudent, "uni-a"),
	domain.Human("c9", "Eli", domain.RoleCounselor, ""),
	domain.Human("adm", "Fay", domain.RoleAdmin, "uni-a"),
}

func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// SeedDirectory upserts Directory into s.
func SeedDirectory(t *testing.T, s store.Store) {
	t.Helper()

	for _, p := range Directory {
		p := p
		if err := s.UpsertParticipant(context.Background(), &p); err != nil {
			t.Fatalf("failed to seed participant %s: %v", p.ID, err)
		}
	}
}

// Config returns a configuration with short timeouts for tests.
func Config() *config.Config {
	return &config.Config{
		StoreTimeout:    time.Second,
		LLMTimeout:      time.Second,
		LLMModel:        "test-model",
		AssistantName:   "Wellness Assistant",
		AIHistoryWindow: 10,
		JWTSecret:       "test-secret",
	}
}
