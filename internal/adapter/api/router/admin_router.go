package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/pending-ads", adminHandler.ListPendingAds)
	admin.POST("/pending-ads/:id/approve", adminHandler.ApproveAd)
	admin.POST("/pending-ads/:id/decline", adminHandler.DeclineAd)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.SetUserRole)
	admin.GET("/users/:id/ads", adminHandler.ListUserAds)
}
