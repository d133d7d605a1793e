package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/domain/entity"
	"adboard/internal/usecase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
	"adboard/pkg/utils"
)

type AdHandler struct {
	adUseCase *usecase.AdUseCase
}

func NewAdHandler(adUseCase *usecase.AdUseCase) *AdHandler {
	return &AdHandler{
		adUseCase: adUseCase,
	}
}

type adImageRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Path string `json:"path" validate:"required"`
}

type submitAdRequest struct {
	Title         string           `json:"title" validate:"required,min=3,max=120"`
	Category      string           `json:"category" validate:"required"`
	Price         float64          `json:"price" validate:"required,gt=0"`
	Location      string           `json:"location" validate:"required"`
	ContactNumber string           `json:"contact_number" validate:"required,min=6,max=20"`
	Description   string           `json:"description" validate:"required,min=10"`
	Images        []adImageRequest `json:"images" validate:"omitempty,max=8,dive"`
}

// SubmitAd queues a new listing for moderation. Images are uploaded through
// the file endpoint first; this request carries their references.
func (h *AdHandler) SubmitAd(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req submitAdRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	images := make([]entity.AdImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, entity.AdImage{URL: img.URL, Path: img.Path})
	}

	id, err := h.adUseCase.SubmitAd(c.Request().Context(), uid, usecase.SubmitAdInput{
		Title:         req.Title,
		Category:      req.Category,
		Price:         req.Price,
		Location:      req.Location,
		ContactNumber: req.ContactNumber,
		Description:   req.Description,
		Images:        images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"id":     id,
		"status": "pending",
	})
}

func (h *AdHandler) ListAds(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	category := c.QueryParam("category")
	search := c.QueryParam("search")

	ads, total, err := h.adUseCase.ListAds(c.Request().Context(), category, search, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, ads, total, params.Page, params.PageSize)
}

func (h *AdHandler) GetAd(c echo.Context) error {
	detail, err := h.adUseCase.GetAd(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *AdHandler) ListMyAds(c echo.Context) error {
	uid := c.Get("uid").(string)

	ads, err := h.adUseCase.ListUserAds(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, ads)
}

type setSoldRequest struct {
	Sold *bool `json:"sold" validate:"required"`
}

func (h *AdHandler) SetSold(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req setSoldRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.adUseCase.SetSold(c.Request().Context(), uid, c.Param("id"), *req.Sold); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"sold": *req.Sold})
}

func (h *AdHandler) DeleteAd(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.adUseCase.DeleteAd(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Ad deleted"})
}
