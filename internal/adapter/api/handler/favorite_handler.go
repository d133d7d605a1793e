package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/usecase"
	"adboard/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

// Toggle flips the caller's favorite mark on a listing and reports the new
// state.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	uid := c.Get("uid").(string)

	favorited, err := h.favoriteUseCase.Toggle(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"favorited": favorited})
}

func (h *FavoriteHandler) IsFavorite(c echo.Context) error {
	uid := c.Get("uid").(string)

	favorited, err := h.favoriteUseCase.IsFavorite(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"favorited": favorited})
}

func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	uid := c.Get("uid").(string)

	ads, err := h.favoriteUseCase.ListFavorites(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ads)
}
