package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ecoscan-backend/internal/config"
	"ecoscan-backend/internal/gemini"
	"ecoscan-backend/internal/handlers"
	"ecoscan-backend/internal/middleware"
	"ecoscan-backend/internal/supabase"
)

// scansRouter wires the scans handler behind the error middleware with a
// stub identity. Collaborators are nil; the covered paths fail before any of
// them is touched.
func scansRouter(userID string) *gin.Engine {
	cfg := &config.Config{Environment: "development"}
	handler := handlers.NewScansHandler(nil, nil, nil)

	router := gin.New()
	router.Use(middleware.ErrorMiddleware(cfg))
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}
	router.POST("/scans", handler.CreateScan)
	return router
}

func TestCreateScan_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req, _ := http.NewRequest("POST", "/scans", nil)
	w := httptest.NewRecorder()
	scansRouter("").ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var envelope map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "User not authenticated", envelope["message"])
	assert.Nil(t, envelope["data"])
}

func TestCreateScan_NoImageFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Multipart body without the "image" field
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("note", "no image here")
	writer.Close()

	req, _ := http.NewRequest("POST", "/scans", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	scansRouter(uuid.New().String()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image file provided")
}

// TestCreateScan_UpstreamFailure drives the full orchestration with a fake
// object store and a provider answering 503: the upstream status is forwarded
// in the envelope and no persistence is attempted (the nil db would panic if
// it were reached).
func TestCreateScan_UpstreamFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Key":"ok"}`))
	}))
	defer storageServer.Close()

	providerServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model overloaded"))
	}))
	defer providerServer.Close()

	storageClient, err := supabase.NewStorageClient(storageServer.URL, "service-key", "ecoscan")
	assert.NoError(t, err)
	geminiClient := gemini.NewClient(providerServer.URL, "", "test-key", "test-model")

	cfg := &config.Config{Environment: "development"}
	handler := handlers.NewScansHandler(nil, storageClient, geminiClient)

	router := gin.New()
	router.Use(middleware.ErrorMiddleware(cfg))
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New().String())
		c.Next()
	})
	router.POST("/scans", handler.CreateScan)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("image", "bottle.jpg")
	part.Write([]byte("fake image bytes"))
	writer.Close()

	req, _ := http.NewRequest("POST", "/scans", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var envelope map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["message"], "model overloaded")
	assert.Nil(t, envelope["data"])
}

func TestCreateScan_InvalidUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	req, _ := http.NewRequest("POST", "/scans", nil)
	w := httptest.NewRecorder()
	scansRouter("not-a-uuid").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
