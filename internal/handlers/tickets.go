package handlers

import (
	"net/http"

	"eventro/internal/models"

	"github.com/gin-gonic/gin"
)

// PurchaseTicket - POST /api/tickets
// Купить билет на событие
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.services.Tickets.Purchase(c.Request.Context(), currentUser(c), req.EventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to purchase ticket")
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets - GET /api/tickets
// Мои билеты
func (h *Handlers) ListTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// LookupTicket - POST /api/tickets/lookup
// Найти билет по содержимому QR-кода
func (h *Handlers) LookupTicket(c *gin.Context) {
	var req models.LookupTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.services.Tickets.Lookup(c.Request.Context(), req.Payload)
	if err != nil {
		h.handleServiceError(c, err, "Failed to look up ticket")
		return
	}

	c.JSON(http.StatusOK, ticket)
}
