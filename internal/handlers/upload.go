package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/models"
	"ecoscan-backend/internal/supabase"
)

type UploadHandler struct {
	storageClient *supabase.StorageClient
}

func NewUploadHandler(storageClient *supabase.StorageClient) *UploadHandler {
	return &UploadHandler{storageClient: storageClient}
}

// Upload godoc
// @Summary     Upload an image without scanning it
// @Description Stores the image in object storage and returns its public URL and id.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       image formData file true "Image file"
// @Success     200 {object} models.APIResponse
// @Router      /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, err := currentUserID(c); err != nil {
		c.Error(err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.Error(apierr.BadRequest("No image file provided"))
		return
	}

	tmpPath, cleanup, err := stageFile(c, file)
	if err != nil {
		c.Error(err)
		return
	}
	defer cleanup()

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		c.Error(fmt.Errorf("failed to read staged upload: %w", err))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	imageURL, publicID, err := h.storageClient.Store(data, contentType, storageFolder)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(models.UploadResponse{
		URL:      imageURL,
		PublicID: publicID,
	}, "Image uploaded successfully"))
}
