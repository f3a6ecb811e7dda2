package handler

import (
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/adventure-service/internal/realtime"
	"github.com/labstack/echo/v4"
)

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/ws/bookings", h.Serve)
}

// Serve attaches an admin dashboard to the live booking feed.
func (h *WebSocketHandler) Serve(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request(), middleware.SubjectFrom(c))
}
