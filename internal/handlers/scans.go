package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/database"
	"ecoscan-backend/internal/gemini"
	"ecoscan-backend/internal/middleware"
	"ecoscan-backend/internal/models"
	"ecoscan-backend/internal/supabase"
)

const storageFolder = "ecoscan"

type ScansHandler struct {
	db            *database.Client
	storageClient *supabase.StorageClient
	geminiClient  *gemini.Client
}

func NewScansHandler(db *database.Client, storageClient *supabase.StorageClient, geminiClient *gemini.Client) *ScansHandler {
	return &ScansHandler{
		db:            db,
		storageClient: storageClient,
		geminiClient:  geminiClient,
	}
}

// CreateScan godoc
// @Summary     Scan a product photo
// @Description Uploads the image, classifies it with Gemini, and persists the assessment.
// @Tags        scans
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       image formData file true "Product photo"
// @Success     200 {object} models.APIResponse
// @Router      /scans [post]
func (h *ScansHandler) CreateScan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
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
	// The staged file is removed exactly once, whatever happens downstream.
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

	// A classification failure past this point leaves the uploaded image in
	// place as an orphan; it is not rolled back or retried.
	analysis, err := h.geminiClient.AnalyzeImage(imageURL)
	if err != nil {
		c.Error(err)
		return
	}

	scan, err := h.db.CreateScan(&models.Scan{
		UserID:                 userID,
		ImageURL:               imageURL,
		ImagePublicID:          publicID,
		ProductName:            analysis.ProductName,
		MaterialType:           analysis.MaterialType,
		Recyclability:          analysis.Recyclability,
		CarbonFootprint:        analysis.CarbonFootprint,
		DisposalMethod:         analysis.DisposalMethod,
		AlternativeSuggestions: analysis.AlternativeSuggestions,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(scan, "Scan created successfully"))
}

// ListScans godoc
// @Summary     List the caller's scans
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.APIResponse
// @Router      /scans [get]
func (h *ScansHandler) ListScans(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	scans, err := h.db.ListScans(userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(scans, "Scans retrieved successfully"))
}

// GetScan godoc
// @Summary     Get one scan by id
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Scan ID (UUID)"
// @Success     200 {object} models.APIResponse
// @Router      /scans/{id} [get]
func (h *ScansHandler) GetScan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	scanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apierr.BadRequest("invalid scan id"))
		return
	}

	scan, err := h.db.GetScan(scanID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(scan, "Scan retrieved successfully"))
}

// DeleteScan godoc
// @Summary     Delete one scan by id
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Scan ID (UUID)"
// @Success     200 {object} models.APIResponse
// @Router      /scans/{id} [delete]
func (h *ScansHandler) DeleteScan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	scanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apierr.BadRequest("invalid scan id"))
		return
	}

	if err := h.db.DeleteScan(scanID, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(nil, "Scan deleted successfully"))
}

// currentUserID resolves the authenticated owner identity set by the auth
// middleware. Absence is fatal before any external call is made.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return uuid.Nil, apierr.Unauthorized("User not authenticated")
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid user id")
	}

	return userID, nil
}

// stageFile copies the upload to a local temp file and returns its path plus
// a cleanup func. Cleanup is best-effort: a failed delete is logged and never
// changes the outcome of the request.
func stageFile(c *gin.Context, file *multipart.FileHeader) (string, func(), error) {
	path := filepath.Join(os.TempDir(), "ecoscan-"+uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to delete temp file %s: %v", path, err)
		}
	}
	return path, cleanup, nil
}
