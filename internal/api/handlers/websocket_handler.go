package handlers

import (
	"marketplace-backend/internal/infrastructure/websocket"

	"github.com/labstack/echo/v4"
)

type WebSocketHandler struct {
	gateway *websocket.Gateway
}

func NewWebSocketHandler(gateway *websocket.Gateway) *WebSocketHandler {
	return &WebSocketHandler{gateway: gateway}
}

func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	h.gateway.HandleConnection(c.Response(), c.Request())
	return nil
}
