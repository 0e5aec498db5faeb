package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/media"
)

type ResourcePhotoHandler struct {
	upload *media.UploadResourcePhoto
}

func NewResourcePhotoHandler(upload *media.UploadResourcePhoto) *ResourcePhotoHandler {
	return &ResourcePhotoHandler{upload: upload}
}

// POST /api/me/resources/:id/photo (multipart field "photo")
func (h *ResourcePhotoHandler) Upload(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Send the image in the photo field.")
		return
	}
	if file.Size > media.MaxUploadBytes {
		respondError(c, media.ErrImageTooLarge)
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Send the image in the photo field.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Send the image in the photo field.")
		return
	}

	url, err := h.upload.Execute(c.Request.Context(), businessID(c), actor(c), resourceID, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
