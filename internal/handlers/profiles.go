package handlers

import (
	"net/http"

	"eventro/internal/models"
	"eventro/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProfile - GET /api/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.services.Profiles.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpsertProfile - PUT /api/profile
// Создать или обновить свой профиль
func (h *Handlers) UpsertProfile(c *gin.Context) {
	var req models.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.services.Profiles.Upsert(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to save profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar - POST /api/profile/avatar
func (h *Handlers) UploadAvatar(c *gin.Context) {
	withUpload(c, func(upload service.Upload) {
		profile, err := h.services.Profiles.UploadAvatar(c.Request.Context(), currentUser(c), upload)
		if err != nil {
			h.handleServiceError(c, err, "Failed to upload avatar")
			return
		}
		c.JSON(http.StatusOK, profile)
	})
}

// UploadBanner - POST /api/profile/banner
func (h *Handlers) UploadBanner(c *gin.Context) {
	withUpload(c, func(upload service.Upload) {
		profile, err := h.services.Profiles.UploadBanner(c.Request.Context(), currentUser(c), upload)
		if err != nil {
			h.handleServiceError(c, err, "Failed to upload banner")
			return
		}
		c.JSON(http.StatusOK, profile)
	})
}
