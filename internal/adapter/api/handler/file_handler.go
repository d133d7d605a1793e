package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"adboard/internal/infrastructure/storage"
	"adboard/pkg/errors"
	"adboard/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
}

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
	}
}

var allowedFolders = map[string]bool{
	"ads":      true,
	"profiles": true,
}

// Upload stores an image and returns its URL and object path. Listings
// reference the returned values when they are submitted.
func (h *FileHandler) Upload(c echo.Context) error {
	folder := c.FormValue("folder")
	if folder == "" {
		folder = "ads"
	}
	if !allowedFolders[folder] {
		return response.Error(c, errors.BadRequest("Unknown upload folder", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return response.Error(c, errors.BadRequest("Only image uploads are allowed", nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read file", err))
	}
	defer src.Close()

	ref, err := h.storageClient.UploadFile(c.Request().Context(), src, contentType, folder)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, ref)
}

func (h *FileHandler) Delete(c echo.Context) error {
	var req struct {
		Path string `json:"path" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.storageClient.DeleteFile(c.Request().Context(), req.Path); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "File deleted"})
}
