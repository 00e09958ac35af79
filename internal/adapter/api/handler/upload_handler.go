package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/service"
	"microtask/pkg/errors"
	"microtask/pkg/logger"
	"microtask/pkg/response"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadHandler struct {
	images      service.ImageStore
	maxFileSize int64
}

func NewUploadHandler(images service.ImageStore) *UploadHandler {
	return &UploadHandler{
		images:      images,
		maxFileSize: 5 * 1024 * 1024,
	}
}

// UploadImage stores a task image (buyers) or a proof screenshot (workers)
// and returns its public URL.
func (h *UploadHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid image", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := "proofs"
	if actor := actorOf(c); actor.Role == entity.RoleBuyer || actor.Role == entity.RoleAdmin {
		folder = "tasks"
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read image", err))
	}
	defer src.Close()

	url, err := h.images.Upload(c.Request().Context(), src, contentType, folder)
	if err != nil {
		logger.Error("Image upload failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload image", err))
	}

	return response.Created(c, map[string]string{"url": url})
}
