package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/database"
	"ecoscan-backend/internal/models"
	"ecoscan-backend/internal/supabase"
)

type UsersHandler struct {
	db    *database.Client
	admin *supabase.Client
}

func NewUsersHandler(db *database.Client, admin *supabase.Client) *UsersHandler {
	return &UsersHandler{db: db, admin: admin}
}

// SyncProfile godoc
// @Summary     Upsert the caller's profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.APIResponse
// @Router      /users/sync [post]
func (h *UsersHandler) SyncProfile(c *gin.Context) {
	var req models.SyncProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apierr.BadRequest("invalid request body"))
		return
	}

	if req.ID == "" {
		c.Error(apierr.BadRequest("User ID is required"))
		return
	}

	profileID, err := uuid.Parse(req.ID)
	if err != nil {
		c.Error(apierr.BadRequest("invalid user id"))
		return
	}

	profile, err := h.db.UpsertProfile(&models.Profile{
		ID:       profileID,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(profile, "Profile synced successfully"))
}

// GetProfile godoc
// @Summary     Get a profile by id
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Profile ID (UUID)"
// @Success     200 {object} models.APIResponse
// @Router      /users/profile/{id} [get]
func (h *UsersHandler) GetProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apierr.BadRequest("invalid profile id"))
		return
	}

	profile, err := h.db.GetProfile(profileID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(profile, "Profile retrieved successfully"))
}

// DeleteAccount godoc
// @Summary     Delete the caller's account
// @Description Removes all scans owned by the caller, then the auth user itself.
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.APIResponse
// @Router      /users/me [delete]
func (h *UsersHandler) DeleteAccount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	// Owned records go first so the account is never removed while scans
	// still reference it.
	if err := h.db.DeleteAllScans(userID); err != nil {
		c.Error(err)
		return
	}

	if err := h.admin.DeleteUser(userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.OK(nil, "Account deleted successfully"))
}
