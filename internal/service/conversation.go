package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/wellnest/messaging/internal/domain"
)

// ListConversations derives one summary per distinct peer of userID from the
// message log, most recent first. The latest message of each conversation is
// chosen by (CreatedAt, Seq), so equal timestamps resolve by insert order.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	if err := validateParticipantID(userID); err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeContext(ctx)
	messages, err := s.store.ListParticipantMessages(storeCtx, userID)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: list participant messages: %v", domain.ErrInternal, err)
	}

	groups := lo.GroupBy(messages, func(m domain.Message) string {
		return m.ConversationID
	})
	latest := lo.MapToSlice(groups, func(_ string, group []domain.Message) domain.Message {
		return lo.MaxBy(group, func(a, b domain.Message) bool {
			return a.After(b)
		})
	})
	sort.Slice(latest, func(i, j int) bool {
		return latest[i].After(latest[j])
	})

	participants := s.newParticipantCache()
	summaries := make([]domain.ConversationSummary, 0, len(latest))
	for _, m := range latest {
		peerID := m.Peer(userID)
		if peerID == userID {
			continue
		}
		peer, err := participants.get(ctx, peerID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ConversationSummary{
			Peer:          peer.Ref(),
			LastMessage:   m.Text,
			LastMessageAt: m.CreatedAt,
		})
	}
	return summaries, nil
}
