package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/transport/http/httperr"
)

// UpsertParticipant creates or updates a directory entry.
// PUT /internal/participants/:participant_id
func (h *Handler) UpsertParticipant(c echo.Context) error {
	var req domain.UpsertParticipantRequest
	if err := c.Bind(&req); err != nil {
		return httperr.BadRequest(c, "invalid request body")
	}

	participant := domain.Human(c.Param("participant_id"), req.Name, req.Role, req.OrgScope)
	saved, err := h.service.UpsertParticipant(c.Request().Context(), participant)
	if err != nil {
		return httperr.Write(c, err)
	}

	return c.JSON(http.StatusOK, saved)
}

// GetParticipant returns a directory entry.
// GET /internal/participants/:participant_id
func (h *Handler) GetParticipant(c echo.Context) error {
	participant, err := h.service.GetParticipant(c.Request().Context(), c.Param("participant_id"))
	if err != nil {
		return httperr.Write(c, err)
	}
	return c.JSON(http.StatusOK, participant)
}
