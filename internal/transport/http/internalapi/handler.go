// Package internalapi provides HTTP handlers for internal messaging APIs.
// These APIs are only accessible to the onboarding system.
package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal API handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Participant directory sync
	e.PUT("/internal/participants/:participant_id", h.UpsertParticipant)
	e.GET("/internal/participants/:participant_id", h.GetParticipant)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
