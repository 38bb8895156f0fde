package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/adapter/llm"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/repository"
	"github.com/wellnest/messaging/internal/testutil"
	"github.com/wellnest/messaging/policy"
)

var baseTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	onCall   func()
	requests []*llm.ChatCompletionRequest
}

func (f *fakeLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: llm.RoleAssistant, Content: f.reply}}},
	}, nil
}

func (f *fakeLLM) lastRequest() *llm.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// flakyStore fails every AppendMessage after the first okAppends.
type flakyStore struct {
	store.Store
	mu        sync.Mutex
	okAppends int
	appends   int
}

func (f *flakyStore) AppendMessage(ctx context.Context, m *domain.Message) error {
	f.mu.Lock()
	f.appends++
	n := f.appends
	f.mu.Unlock()
	if n > f.okAppends {
		return errors.New("disk full")
	}
	return f.Store.AppendMessage(ctx, m)
}

type testEnv struct {
	svc   *Service
	store store.Store
	llm   *fakeLLM
	clock *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, testutil.NewTestSQLiteStore(t))
}

func newTestEnvWithStore(t *testing.T, db store.Store) *testEnv {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	fake := &fakeLLM{reply: "That sounds hard. Want to talk about it?"}
	svc := New(db, fake, engine, testutil.Config(), zerolog.Nop())

	clock := baseTime
	svc.now = func() time.Time { return clock }

	testutil.SeedDirectory(t, db)
	return &testEnv{svc: svc, store: db, llm: fake, clock: &clock}
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}
