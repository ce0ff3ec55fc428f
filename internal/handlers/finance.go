package handlers

import (
	"net/http"
	"strconv"

	"eventro/internal/models"
	"eventro/internal/service"

	"github.com/gin-gonic/gin"
)

// ListBills - GET /api/events/:id/bills
func (h *Handlers) ListBills(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	bills, err := h.services.Finance.ListBills(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list bills")
		return
	}

	c.JSON(http.StatusOK, bills)
}

// CreateBill - POST /api/events/:id/bills
// Добавить расход события (только организатор)
func (h *Handlers) CreateBill(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.services.Finance.CreateBill(c.Request.Context(), currentUser(c), eventID, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create bill")
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// DeleteBill - DELETE /api/events/:id/bills/:billId
func (h *Handlers) DeleteBill(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	if err := h.services.Finance.DeleteBill(c.Request.Context(), currentUser(c), eventID, c.Param("billId")); err != nil {
		h.handleServiceError(c, err, "Failed to delete bill")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadReceipt - POST /api/events/:id/bills/:billId/receipt
func (h *Handlers) UploadReceipt(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	billID := c.Param("billId")

	withUpload(c, func(upload service.Upload) {
		bill, err := h.services.Finance.UploadReceipt(c.Request.Context(), currentUser(c), eventID, billID, upload)
		if err != nil {
			h.handleServiceError(c, err, "Failed to upload receipt")
			return
		}
		c.JSON(http.StatusOK, bill)
	})
}

// FinanceSummary - GET /api/events/:id/finance/summary
// Выручка, расходы по категориям и прибыль
func (h *Handlers) FinanceSummary(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	summary, err := h.services.Finance.Summary(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get finance summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// FinanceInsights - GET /api/events/:id/finance/insights
func (h *Handlers) FinanceInsights(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	insights, err := h.services.Finance.Insights(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get financial insights")
		return
	}

	c.JSON(http.StatusOK, insights)
}

// AnalyzeReceipt - POST /api/finance/analyze-receipt
// Распознать описание, категорию и сумму в тексте чека
func (h *Handlers) AnalyzeReceipt(c *gin.Context) {
	var req models.AnalyzeReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.services.Finance.AnalyzeReceipt(c.Request.Context(), req.Text)
	if err != nil {
		h.handleServiceError(c, err, "Failed to analyze receipt")
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ReminderEmailPreview - POST /api/events/:id/reminder-email
// Письмо-напоминание, которое получат участники (только организатор)
func (h *Handlers) ReminderEmailPreview(c *gin.Context) {
	eventID, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}

	email, err := h.services.Reminders.Preview(c.Request.Context(), currentUser(c), eventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to generate reminder email")
		return
	}

	c.JSON(http.StatusOK, email)
}

// Recommendations - GET /api/recommendations?query=&limit=
func (h *Handlers) Recommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	recs, err := h.services.Recommendations.Recommend(c.Request.Context(), currentUser(c), c.Query("query"), limit)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get recommendations")
		return
	}

	c.JSON(http.StatusOK, recs)
}
