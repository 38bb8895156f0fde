package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/wellnest/messaging/internal/adapter/llm"
	"github.com/wellnest/messaging/internal/domain"
)

const assistantPersona = `You are a warm, supportive wellness assistant for university students.
Listen carefully, respond with empathy and keep answers short and practical.
You are not a therapist and do not diagnose. If the student mentions self-harm
or being in danger, encourage them to contact their counselor or local
emergency services right away.`

// replyTokenBudget keeps completions near the stored text limit.
const replyTokenBudget = 400

// AIChat sends prompt to the completion endpoint on behalf of userID and
// records the exchange in the user's assistant conversation. Nothing is
// written unless the completion succeeds.
func (s *Service) AIChat(ctx context.Context, userID, prompt, contextText string) (string, error) {
	startedAt := s.now().UTC()

	if err := validateParticipantID(userID); err != nil {
		return "", err
	}
	prompt, err := normalizeText(prompt)
	if err != nil {
		return "", err
	}
	user, err := s.resolveParticipant(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.IsAssistant() {
		return "", fmt.Errorf("%w: the assistant cannot chat with itself", domain.ErrValidation)
	}
	assistant := s.assistant()
	conversationID := domain.ResolveConversationID(user.ID, assistant.ID)

	history, err := s.conversationMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}

	reply, err := s.complete(ctx, buildCompletionMessages(history, user.ID, prompt, contextText, s.config.AIHistoryWindow))
	if err != nil {
		s.log.Warn().Err(err).Str("participant_id", user.ID).Msg("assistant completion failed")
		return "", err
	}

	promptMsg := &domain.Message{
		ID:             uuid.New().String(),
		SenderID:       user.ID,
		ReceiverID:     assistant.ID,
		Text:           prompt,
		ConversationID: conversationID,
		CreatedAt:      startedAt,
	}
	if err := s.appendMessage(ctx, promptMsg); err != nil {
		return "", err
	}

	replyMsg := &domain.Message{
		ID:             uuid.New().String(),
		SenderID:       assistant.ID,
		ReceiverID:     user.ID,
		Text:           reply,
		ConversationID: conversationID,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.appendMessage(ctx, replyMsg); err != nil {
		// The prompt stays in the log without a reply.
		s.log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Str("prompt_id", promptMsg.ID).
			Msg("assistant reply not stored")
		return "", err
	}

	s.log.Info().
		Str("conversation_id", conversationID).
		Int("history_turns", min(len(history), s.config.AIHistoryWindow)).
		Msg("assistant replied")
	return reply, nil
}

// complete runs one completion bounded by LLMTimeout and returns the trimmed
// reply, capped at MaxTextLength code points.
func (s *Service) complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	maxTokens := replyTokenBudget
	resp, err := s.llmClient.CreateChatCompletion(callCtx, &llm.ChatCompletionRequest{
		Model:     s.config.LLMModel,
		Messages:  messages,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		var statusErr *llm.StatusError
		switch {
		case errors.Is(err, llm.ErrMissingCredentials):
			return "", fmt.Errorf("%w: assistant is not configured", domain.ErrUpstream)
		case errors.As(err, &statusErr) && statusErr.Unauthorized():
			s.log.Error().Int("status", statusErr.StatusCode).Msg("completion endpoint rejected credentials")
			return "", fmt.Errorf("%w: assistant is not configured", domain.ErrUpstream)
		case errors.As(err, &statusErr):
			return "", fmt.Errorf("%w: assistant unavailable (status %d)", domain.ErrUpstream, statusErr.StatusCode)
		}
		return "", fmt.Errorf("%w: completion request: %v", domain.ErrUpstream, err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}
	return truncateRunes(reply, domain.MaxTextLength), nil
}

// buildCompletionMessages assembles persona, optional context, the last
// window turns of the assistant conversation and the prompt.
func buildCompletionMessages(history []domain.Message, userID, prompt, contextText string, window int) []llm.ChatMessage {
	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: assistantPersona}}
	if contextText = strings.TrimSpace(contextText); contextText != "" {
		messages = append(messages, llm.ChatMessage{
			Role:    llm.RoleSystem,
			Content: "Context from the student: " + contextText,
		})
	}

	recent := history
	if window < len(history) {
		recent = lo.Subset(history, -window, uint(window))
	}
	messages = append(messages, lo.Map(recent, func(m domain.Message, _ int) llm.ChatMessage {
		if m.SenderID == userID {
			return llm.ChatMessage{Role: llm.RoleUser, Content: m.Text}
		}
		return llm.ChatMessage{Role: llm.RoleAssistant, Content: m.Text}
	})...)

	return append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: prompt})
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
