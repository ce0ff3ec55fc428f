package handlers

import (
	"net/http"

	"eventro/internal/models"

	"github.com/gin-gonic/gin"
)

// SubmitFeedback - POST /api/events/:id/feedback
// Оценка события от 1 до 5, повторная оценка заменяет предыдущую
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.services.Feedback.Submit(c.Request.Context(), currentUser(c), eventID, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to submit feedback")
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// ListFeedback - GET /api/events/:id/feedback
func (h *Handlers) ListFeedback(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	summary, err := h.services.Feedback.Summary(c.Request.Context(), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list feedback")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListFavorites - GET /api/favorites
func (h *Handlers) ListFavorites(c *gin.Context) {
	events, err := h.services.Favorites.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list favorites")
		return
	}

	c.JSON(http.StatusOK, events)
}

// AddFavorite - POST /api/favorites/:eventId
func (h *Handlers) AddFavorite(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "eventId")
	if !ok {
		return
	}

	if err := h.services.Favorites.Add(c.Request.Context(), currentUser(c), eventID); err != nil {
		h.handleServiceError(c, err, "Failed to add favorite")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveFavorite - DELETE /api/favorites/:eventId
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "eventId")
	if !ok {
		return
	}

	if err := h.services.Favorites.Remove(c.Request.Context(), currentUser(c), eventID); err != nil {
		h.handleServiceError(c, err, "Failed to remove favorite")
		return
	}

	c.Status(http.StatusNoContent)
}
