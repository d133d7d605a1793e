package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
	SecretKey string `json:"secret_key"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		SecretKey: req.SecretKey,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *AuthHandler) Me(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.authUseCase.GetCurrentUser(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

type presenceRequest struct {
	Online *bool `json:"online" validate:"required"`
}

func (h *AuthHandler) SetPresence(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req presenceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authUseCase.SetPresence(c.Request().Context(), uid, *req.Online); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"online": *req.Online})
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.authUseCase.SignOut(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Signed out"})
}
