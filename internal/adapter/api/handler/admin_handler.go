package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *AdminHandler) ListPendingAds(c echo.Context) error {
	ads, err := h.adminUseCase.ListPendingAds(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ads)
}

func (h *AdminHandler) ApproveAd(c echo.Context) error {
	ad, err := h.adminUseCase.ApproveAd(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ad)
}

func (h *AdminHandler) DeclineAd(c echo.Context) error {
	if err := h.adminUseCase.DeclineAd(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Ad declined"})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminUseCase.ListUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func (h *AdminHandler) SetUserRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adminUseCase.SetUserRole(c.Request().Context(), c.Param("id"), req.Role); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"role": req.Role})
}

func (h *AdminHandler) ListUserAds(c echo.Context) error {
	ads, err := h.adminUseCase.ListUserAds(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ads)
}
