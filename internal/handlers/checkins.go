package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "eventro/internal/errors"
	"eventro/internal/models"

	"github.com/gin-gonic/gin"
)

// CheckIn - POST /api/events/:id/checkins
// Отметить вход участника по QR-коду на день события.
// Повторное сканирование в тот же день возвращает 409 и существующую запись.
func (h *Handlers) CheckIn(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := h.services.CheckIns.CheckIn(c.Request.Context(), currentUser(c), eventID, req.Payload, req.DayNumber)
	if errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "check_in": checkIn})
		return
	}
	if err != nil {
		h.handleServiceError(c, err, "Failed to check in")
		return
	}

	c.JSON(http.StatusCreated, checkIn)
}

// ListCheckIns - GET /api/events/:id/checkins?day=N
func (h *Handlers) ListCheckIns(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	day := 0
	if v := c.Query("day"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day must be >= 1"})
			return
		}
		day = d
	}

	checkIns, err := h.services.CheckIns.List(c.Request.Context(), currentUser(c), eventID, day)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list check-ins")
		return
	}

	c.JSON(http.StatusOK, checkIns)
}

// CheckInStats - GET /api/events/:id/checkins/stats
// Количество входов по дням
func (h *Handlers) CheckInStats(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	stats, err := h.services.CheckIns.Stats(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get check-in stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Distribute - POST /api/events/:id/distributions
// Выдать предмет владельцу билета. Каждый тип предмета выдается участнику один раз.
func (h *Handlers) Distribute(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.DistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.services.Distributions.Distribute(c.Request.Context(), currentUser(c), eventID, req.Payload, req.ItemType, req.DayNumber)
	if errors.Is(err, apperrors.ErrAlreadyDistributed) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "distribution": d})
		return
	}
	if err != nil {
		h.handleServiceError(c, err, "Failed to record distribution")
		return
	}

	c.JSON(http.StatusCreated, d)
}

// ListDistributions - GET /api/events/:id/distributions
func (h *Handlers) ListDistributions(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	items, err := h.services.Distributions.List(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list distributions")
		return
	}

	c.JSON(http.StatusOK, items)
}
