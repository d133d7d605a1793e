package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Param("id")

	profile, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) GetMyProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	profile, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) UploadPhoto(c echo.Context) error {
	uid := c.Get("uid").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read file", err))
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	ref, err := h.userUseCase.UploadPhoto(c.Request().Context(), uid, contentType, src)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ref)
}

func (h *UserHandler) DeletePhoto(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.userUseCase.DeletePhoto(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Photo removed"})
}

type interestsRequest struct {
	Interests []string `json:"interests" validate:"required,max=20,dive,min=1"`
}

func (h *UserHandler) UpdateInterests(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req interestsRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.UpdateInterests(c.Request().Context(), uid, req.Interests); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"interests": req.Interests})
}

// InterestFeed returns recently published listings in the caller's interest
// categories.
func (h *UserHandler) InterestFeed(c echo.Context) error {
	uid := c.Get("uid").(string)

	ads, err := h.userUseCase.InterestFeed(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ads)
}
