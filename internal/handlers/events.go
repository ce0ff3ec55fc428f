package handlers

import (
	"net/http"
	"strconv"
	"time"

	"eventro/internal/models"
	"eventro/internal/service"

	"github.com/gin-gonic/gin"
)

// ListEvents - GET /api/events
// Получить список событий
func (h *Handlers) ListEvents(c *gin.Context) {
	filter, ok := eventFilter(c)
	if !ok {
		return
	}

	events, err := h.services.Events.List(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// SearchEvents - GET /api/events/search
// Полнотекстовый поиск событий
func (h *Handlers) SearchEvents(c *gin.Context) {
	filter, ok := eventFilter(c)
	if !ok {
		return
	}

	events, err := h.services.Events.Search(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, "Failed to search events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// eventFilter читает query, category, date, page и pageSize
func eventFilter(c *gin.Context) (models.EventFilter, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return models.EventFilter{}, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return models.EventFilter{}, false
	}

	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return models.EventFilter{}, false
		}
	}

	return models.EventFilter{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Date:     date,
		Page:     page,
		PageSize: pageSize,
	}, true
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreateEvent - POST /api/events
// Создать событие, организатором становится текущий пользователь
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /api/events/:id
// Изменить событие (только организатор)
func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), currentUser(c), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// UploadEventImage - POST /api/events/:id/image
// Загрузить обложку события (multipart, поле file)
func (h *Handlers) UploadEventImage(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	withUpload(c, func(upload service.Upload) {
		event, err := h.services.Events.UploadImage(c.Request.Context(), currentUser(c), id, upload)
		if err != nil {
			h.handleServiceError(c, err, "Failed to upload event image")
			return
		}
		c.JSON(http.StatusOK, event)
	})
}

// ListAttendees - GET /api/events/:id/attendees
// Владельцы билетов события (только организатор)
func (h *Handlers) ListAttendees(c *gin.Context) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	holders, err := h.services.Events.Attendees(c.Request.Context(), currentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list attendees")
		return
	}

	c.JSON(http.StatusOK, holders)
}
