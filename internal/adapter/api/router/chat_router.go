package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.StartConversation)
	chats.GET("", chatHandler.ListConversations)
	chats.GET("/unread", chatHandler.Unread)
	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/read", chatHandler.MarkRead)
	chats.DELETE("/:id", chatHandler.DeleteConversation)
}
