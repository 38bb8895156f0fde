package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/auth"
	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/transport/http/httperr"
)

// SendMessage sends a direct message from the caller.
// POST /v1/messages
func (h *Handler) SendMessage(c echo.Context) error {
	session, ok := auth.SessionFrom(c)
	if !ok {
		return missingSession(c)
	}
	var req domain.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	ctx := c.Request().Context()

	msg, err := h.service.SendMessage(ctx, session.ParticipantID, req.ReceiverID, req.Text)
	if err != nil {
		return httperr.Write(c, err)
	}

	return c.JSON(http.StatusCreated, msg)
}

// GetHistory returns the caller's conversation with a peer, oldest first.
// GET /v1/messages/:peer_id
func (h *Handler) GetHistory(c echo.Context) error {
	session, ok := auth.SessionFrom(c)
	if !ok {
		return missingSession(c)
	}
	peerID := c.Param("peer_id")

	ctx := c.Request().Context()

	messages, err := h.service.GetHistory(ctx, session.ParticipantID, peerID)
	if err != nil {
		return httperr.Write(c, err)
	}

	return c.JSON(http.StatusOK, domain.ListMessagesResponse{Messages: messages})
}
