package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/transport/http/httperr"
)

// ListConversations returns one summary per peer, most recent first.
// GET /v1/conversations
func (h *Handler) ListConversations(c echo.Context) error {
	session, ok := auth.SessionFrom(c)
	if !ok {
		return missingSession(c)
	}

	summaries, err := h.service.ListConversations(c.Request().Context(), session.ParticipantID)
	if err != nil {
		return httperr.Write(c, err)
	}

	return c.JSON(http.StatusOK, domain.ListConversationsResponse{Conversations: summaries})
}
