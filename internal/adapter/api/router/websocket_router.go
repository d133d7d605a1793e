package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
)

// SetupWebSocketRouter mounts the realtime endpoint. Authentication happens
// inside the handler via the token query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
