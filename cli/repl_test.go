package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/adapter/llm"
	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/client"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/service"
	"github.com/wellnest/messaging/internal/testutil"
	handler "github.com/wellnest/messaging/internal/transport/http"
	"github.com/wellnest/messaging/policy"
)

func newTestREPL(t *testing.T, selfID string) (*repl, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	cfg := testutil.Config()
	db := testutil.NewTestSQLiteStore(t)
	testutil.SeedDirectory(t, db)

	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	require.NoError(t, err)
	verifier := auth.NewJWTVerifier([]byte(cfg.JWTSecret))
	svc := service.New(db, llm.NewMockClient(), engine, cfg, zerolog.Nop())

	server := httptest.NewServer(handler.NewExternalServer(svc, verifier, zerolog.Nop()))
	t.Cleanup(server.Close)

	token, err := verifier.Generate(domain.Session{ParticipantID: selfID, Role: domain.RoleStudent}, time.Hour)
	require.NoError(t, err)

	var out bytes.Buffer
	return newREPL(client.NewClient(server.URL, token), selfID, &out), &out
}

func TestREPLSendAndRender(t *testing.T) {
	r, out := newTestREPL(t, "u1")
	ctx := context.Background()

	assert.False(t, r.handle(ctx, "/peer u2"))
	assert.False(t, r.handle(ctx, "hello Ben"))

	rows := r.timeline.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "hello Ben", rows[0].Text)
	assert.Equal(t, client.DirectionOwn, rows[0].Direction)
	assert.Empty(t, rows[0].State)
	assert.Contains(t, out.String(), "hello Ben")
}

func TestREPLFailedSendIsMarked(t *testing.T) {
	r, out := newTestREPL(t, "u1")
	ctx := context.Background()

	r.handle(ctx, "/peer u4")
	r.handle(ctx, "hi Dev")

	rows := r.timeline.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, client.EchoFailed, rows[0].State)
	assert.NotContains(t, rows[0].Reason, "try again")
	assert.Contains(t, out.String(), "not sent")
}

func TestREPLUnreachableServerSuggestsRetry(t *testing.T) {
	server := httptest.NewServer(nil)
	addr := server.URL
	server.Close()

	var out bytes.Buffer
	r := newREPL(client.NewClient(addr, "tok"), "u1", &out)
	ctx := context.Background()

	r.handle(ctx, "/peer u2")
	r.handle(ctx, "are you there?")

	rows := r.timeline.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, client.EchoFailed, rows[0].State)
	assert.Contains(t, rows[0].Reason, "try again")
}

func TestREPLCommands(t *testing.T) {
	r, out := newTestREPL(t, "u1")
	ctx := context.Background()

	r.handle(ctx, "hello")
	assert.Contains(t, out.String(), "no conversation open")

	r.handle(ctx, "/list")
	assert.Contains(t, out.String(), "no conversations yet")

	r.handle(ctx, "/ai I feel overwhelmed")
	assert.Contains(t, out.String(), "[MOCK]")

	out.Reset()
	r.handle(ctx, "/list")
	assert.True(t, strings.Contains(strings.ToLower(out.String()), "wellness assistant"))

	r.handle(ctx, "/bogus")
	assert.Contains(t, out.String(), "unknown command /bogus")

	assert.True(t, r.handle(ctx, "/quit"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abcd…", preview("abcdefgh", 5))
	assert.Equal(t, "a b", preview("a\nb", 10))
}
