package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/middleware"
	ws "adboard/internal/infrastructure/websocket"
	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/logger"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	authUseCase    *usecase.AuthUseCase
	chatUseCase    *usecase.ChatUseCase
	watchers       ws.Watchers
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the web client origin once it is deployed
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	authUseCase *usecase.AuthUseCase,
	chatUseCase *usecase.ChatUseCase,
	watchers ws.Watchers,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		authUseCase:    authUseCase,
		chatUseCase:    chatUseCase,
		watchers:       watchers,
	}
}

// HandleWebSocket authenticates via the token query parameter, upgrades the
// connection, and attaches a chat session to it. Browsers cannot set an
// Authorization header on a websocket upgrade.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Token query parameter required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
	client.Session = ws.NewChatSession(userID, h.chatUseCase, h.watchers, client.SendEvent)

	h.wsManager.Register(client)

	ctx := context.Background()
	if err := h.authUseCase.SetPresence(ctx, userID, true); err != nil {
		logger.Warn("Failed to set presence for %s: %v", userID, err)
	}

	client.Session.Start(ctx)

	go client.WritePump()
	go func() {
		client.ReadPump()
		// Presence follows the last live connection, not each one.
		if !h.wsManager.IsOnline(userID) {
			if err := h.authUseCase.SetPresence(context.Background(), userID, false); err != nil {
				logger.Warn("Failed to clear presence for %s: %v", userID, err)
			}
		}
	}()

	return nil
}
