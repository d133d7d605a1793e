package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/handler"
	"adboard/internal/adapter/api/middleware"
)

func SetupFavoriteRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	favoriteHandler := handler.GetFavoriteHandler()

	ads := e.Group("/v1/ads")
	ads.Use(authMiddleware.Authenticate)

	ads.POST("/:id/favorite", favoriteHandler.Toggle)
	ads.GET("/:id/favorite", favoriteHandler.IsFavorite)

	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)

	favorites.GET("", favoriteHandler.ListFavorites)
}
