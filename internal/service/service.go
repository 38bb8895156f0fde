// Package service implements messaging, conversation aggregation and the
// assistant bridge on top of the message store.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellnest/messaging/internal/adapter/llm"
	"github.com/wellnest/messaging/internal/config"
	"github.com/wellnest/messaging/internal/repository"
	"github.com/wellnest/messaging/policy"
)

// Authorizer decides whether two participants may message each other.
type Authorizer interface {
	Evaluate(ctx context.Context, input policy.Input) (policy.Decision, error)
}

type Service struct {
	store      store.Store
	llmClient  llm.LLMClient
	authorizer Authorizer
	config     *config.Config
	log        zerolog.Logger
	now        func() time.Time
}

func New(store store.Store, llmClient llm.LLMClient, authorizer Authorizer, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		llmClient:  llmClient,
		authorizer: authorizer,
		config:     cfg,
		log:        log.With().Str("component", "messaging").Logger(),
		now:        time.Now,
	}
}

// storeContext bounds a single store call.
func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.StoreTimeout)
}
