package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wellnest/messaging/internal/domain"
)

// assistant returns the Assistant participant.
func (s *Service) assistant() domain.Participant {
	return domain.Assistant(s.config.AssistantName)
}

// resolveParticipant maps an id to its Participant variant. The reserved
// assistant id never reaches the directory.
func (s *Service) resolveParticipant(ctx context.Context, id string) (domain.Participant, error) {
	if id == domain.AssistantID {
		return s.assistant(), nil
	}
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	p, err := s.store.GetParticipant(storeCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Participant{}, err
		}
		return domain.Participant{}, fmt.Errorf("%w: participant lookup: %v", domain.ErrInternal, err)
	}
	return *p, nil
}

// displayParticipant is resolveParticipant for rendering: participants that
// have left the directory still render by id.
func (s *Service) displayParticipant(ctx context.Context, id string) (domain.Participant, error) {
	p, err := s.resolveParticipant(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Participant{Kind: domain.KindHuman, ID: id}, nil
	}
	return p, err
}

// participantCache memoizes display lookups within one request.
type participantCache struct {
	svc     *Service
	entries map[string]domain.Participant
}

func (s *Service) newParticipantCache() *participantCache {
	return &participantCache{svc: s, entries: make(map[string]domain.Participant)}
}

func (c *participantCache) get(ctx context.Context, id string) (domain.Participant, error) {
	if p, ok := c.entries[id]; ok {
		return p, nil
	}
	p, err := c.svc.displayParticipant(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	c.entries[id] = p
	return p, nil
}

// UpsertParticipant records a human participant in the directory. It is
// called by the onboarding system through the internal API.
func (s *Service) UpsertParticipant(ctx context.Context, p domain.Participant) (*domain.Participant, error) {
	err := validationError(validate.Struct(participantRecordInput{ID: p.ID, Name: p.Name, Role: string(p.Role)}))
	if err != nil {
		return nil, err
	}
	p.Kind = domain.KindHuman

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.UpsertParticipant(storeCtx, &p); err != nil {
		return nil, fmt.Errorf("%w: upsert participant: %v", domain.ErrInternal, err)
	}

	s.log.Info().Str("participant_id", p.ID).Str("role", string(p.Role)).Msg("participant upserted")
	return &p, nil
}

// GetParticipant returns a directory entry or the Assistant.
func (s *Service) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	if err := validateParticipantID(id); err != nil {
		return nil, err
	}
	p, err := s.resolveParticipant(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
