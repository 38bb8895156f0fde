package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/transport/http/httperr"
)

// AssistantChat forwards a prompt to the assistant and waits for the reply.
// POST /v1/assistant/chat
func (h *Handler) AssistantChat(c echo.Context) error {
	session, ok := auth.SessionFrom(c)
	if !ok {
		return missingSession(c)
	}
	var req domain.AssistantChatRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	reply, err := h.service.AIChat(c.Request().Context(), session.ParticipantID, req.Prompt, req.Context)
	if err != nil {
		return httperr.Write(c, err)
	}

	return c.JSON(http.StatusOK, domain.AssistantChatResponse{Reply: reply})
}
