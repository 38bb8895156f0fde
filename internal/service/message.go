package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/policy"
)

// SendMessage validates, authorizes and appends one human-to-human message.
// Every check runs before the single insert, so a rejected send has no side
// effects.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID, text string) (*domain.MessageView, error) {
	if err := validatePair(senderID, receiverID); err != nil {
		return nil, err
	}
	text, err := normalizeText(text)
	if err != nil {
		return nil, err
	}

	sender, err := s.resolveParticipant(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.resolveParticipant(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, sender, receiver); err != nil {
		s.log.Info().
			Str("sender_id", senderID).
			Str("receiver_id", receiverID).
			Err(err).
			Msg("send rejected")
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.New().String(),
		SenderID:       sender.ID,
		ReceiverID:     receiver.ID,
		Text:           text,
		ConversationID: domain.ResolveConversationID(sender.ID, receiver.ID),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.appendMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("message_id", msg.ID).
		Str("conversation_id", msg.ConversationID).
		Int64("seq", msg.Seq).
		Msg("message appended")

	view := domain.NewMessageView(*msg, sender, receiver)
	return &view, nil
}

// authorize applies the human-to-human rule. Only humans may use
// SendMessage; the Assistant speaks exclusively through AIChat.
func (s *Service) authorize(ctx context.Context, sender, receiver domain.Participant) error {
	if sender.IsAssistant() || receiver.IsAssistant() {
		return fmt.Errorf("%w: the assistant is reachable only through assistant chat", domain.ErrAuthorization)
	}
	decision, err := s.authorizer.Evaluate(ctx, policy.Input{
		Sender:   policy.Party{Role: string(sender.Role), OrgScope: sender.OrgScope},
		Receiver: policy.Party{Role: string(receiver.Role), OrgScope: receiver.OrgScope},
	})
	if err != nil {
		return fmt.Errorf("%w: policy evaluation: %v", domain.ErrInternal, err)
	}
	if !decision.Allow {
		return fmt.Errorf("%w: %s cannot message %s: %s", domain.ErrAuthorization, sender.Role, receiver.Role, decision.Reason)
	}
	return nil
}

// appendMessage performs the single bounded insert. Failures surface as
// internal errors and are not retried.
func (s *Service) appendMessage(ctx context.Context, msg *domain.Message) error {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.AppendMessage(storeCtx, msg); err != nil {
		return fmt.Errorf("%w: append message: %v", domain.ErrInternal, err)
	}
	return nil
}

// GetHistory returns the full conversation between userID and peerID in
// append order. An empty conversation yields an empty slice.
func (s *Service) GetHistory(ctx context.Context, userID, peerID string) ([]domain.MessageView, error) {
	if err := validatePair(userID, peerID); err != nil {
		return nil, err
	}

	messages, err := s.conversationMessages(ctx, domain.ResolveConversationID(userID, peerID))
	if err != nil {
		return nil, err
	}

	participants := s.newParticipantCache()
	views := make([]domain.MessageView, 0, len(messages))
	for _, m := range messages {
		sender, err := participants.get(ctx, m.SenderID)
		if err != nil {
			return nil, err
		}
		receiver, err := participants.get(ctx, m.ReceiverID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.NewMessageView(m, sender, receiver))
	}
	return views, nil
}

func (s *Service) conversationMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	messages, err := s.store.ListConversationMessages(storeCtx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: list conversation: %v", domain.ErrInternal, err)
	}
	return messages, nil
}
