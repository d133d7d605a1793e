package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupAdRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	adHandler := handler.GetAdHandler()

	// Browsing is public; everything that writes requires authentication.
	e.GET("/v1/ads", adHandler.ListAds)
	e.GET("/v1/ads/:id", adHandler.GetAd)

	protected := e.Group("/v1/ads")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", adHandler.SubmitAd)
	protected.GET("/mine", adHandler.ListMyAds)
	protected.PUT("/:id/sold", adHandler.SetSold)
	protected.DELETE("/:id", adHandler.DeleteAd)
}
