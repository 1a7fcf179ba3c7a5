package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quillpress/internal/services"
)

type UploadHandler struct {
	images *services.ImageStore
}

func NewUploadHandler(images *services.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// Serve returns a stored image by filename. No access control applies.
func (h *UploadHandler) Serve(c *gin.Context) {
	path, err := h.images.Path(c.Param("filename"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "The file you requested does not exist.")
		return
	}
	c.File(path)
}
