package handlers

import (
	"net/http"

	"eventro/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notifications?unread=true
func (h *Handlers) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	items, err := h.services.Notifications.List(c.Request.Context(), currentUser(c), unreadOnly)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, items)
}

// MarkNotificationRead - PATCH /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.services.Notifications.MarkRead(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to mark notification read")
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead - PATCH /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.services.Notifications.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// DeleteNotification - DELETE /api/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	if err := h.services.Notifications.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete notification")
		return
	}

	c.Status(http.StatusNoContent)
}

// SendMessage - POST /api/messages
// Отправить сообщение пользователю
func (h *Handlers) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.services.Messages.Send(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Broadcast - POST /api/events/:id/broadcast
// Разослать сообщение всем владельцам билетов (только организатор)
func (h *Handlers) Broadcast(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.services.Messages.Broadcast(c.Request.Context(), currentUser(c), eventID, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to broadcast message")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Inbox - GET /api/messages/inbox
func (h *Handlers) Inbox(c *gin.Context) {
	messages, err := h.services.Messages.Inbox(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list inbox")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SentMessages - GET /api/messages/sent
func (h *Handlers) SentMessages(c *gin.Context) {
	messages, err := h.services.Messages.Sent(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list sent messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// MarkMessageRead - PATCH /api/messages/:id/read
func (h *Handlers) MarkMessageRead(c *gin.Context) {
	if err := h.services.Messages.MarkRead(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to mark message read")
		return
	}

	c.Status(http.StatusNoContent)
}
