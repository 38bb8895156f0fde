// Package v1 provides the public messaging API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/domain"
	"github.com/wellnest/messaging/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers public routes. requireSession guards everything
// under /v1.
func (h *Handler) RegisterRoutes(e *echo.Echo, requireSession echo.MiddlewareFunc) {
	g := e.Group("/v1", requireSession)

	// Direct messages
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/:peer_id", h.GetHistory)

	// Conversation list
	g.GET("/conversations", h.ListConversations)

	// Assistant
	g.POST("/assistant/chat", h.AssistantChat)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func missingSession(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, domain.ErrorBody{
		Error: domain.ErrorDetail{Code: "unauthorized", Message: "missing session"},
	})
}
