package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMyProfile)
	users.POST("/me/photo", userHandler.UploadPhoto)
	users.DELETE("/me/photo", userHandler.DeletePhoto)
	users.PUT("/me/interests", userHandler.UpdateInterests)
	users.GET("/me/feed", userHandler.InterestFeed)
	users.GET("/:id", userHandler.GetProfile)
}
