package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	e.POST("/v1/auth/register", authHandler.Register)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/me", authHandler.Me)
	protected.PUT("/presence", authHandler.SetPresence)
	protected.POST("/signout", authHandler.SignOut)
}
