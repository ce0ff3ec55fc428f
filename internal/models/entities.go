package models

import "time"

// CreateEventRequest - модель для создания события
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	PriceCents  int64     `json:"price_cents" binding:"gte=0"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
}

// UpdateEventRequest - частичное обновление события, nil поля не меняются
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	Location    *string    `json:"location"`
	PriceCents  *int64     `json:"price_cents" binding:"omitempty,gte=0"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
}

// EventFilter describes a page of the events listing
type EventFilter struct {
	Query    string
	Category string
	Date     string
	Page     int
	PageSize int
}

// UpsertProfileRequest - модель создания/обновления профиля
type UpsertProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
}

// PurchaseTicketRequest - модель покупки билета
type PurchaseTicketRequest struct {
	EventID int64 `json:"event_id" binding:"required"`
}

// LookupTicketRequest - поиск билета по содержимому QR-кода
type LookupTicketRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// CheckInRequest - модель регистрации участника на день события
type CheckInRequest struct {
	Payload   string `json:"payload" binding:"required"`
	DayNumber int    `json:"day_number" binding:"required,gte=1"`
}

// DistributionRequest - модель выдачи предмета участнику
type DistributionRequest struct {
	Payload   string `json:"payload" binding:"required"`
	ItemType  string `json:"item_type" binding:"required"`
	DayNumber int    `json:"day_number" binding:"required,gte=1"`
}

// CheckInStatsResponse - статистика регистраций по дням
type CheckInStatsResponse struct {
	EventID      int64      `json:"event_id"`
	TotalTickets int        `json:"total_tickets"`
	Days         []DayCount `json:"days"`
}

// SendMessageRequest - модель отправки сообщения
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	EventID     *int64 `json:"event_id"`
	Subject     string `json:"subject" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// BroadcastRequest - рассылка сообщения всем владельцам билетов события
type BroadcastRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// BroadcastResponse - количество отправленных сообщений
type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}

// FeedbackRequest - модель отзыва о событии
type FeedbackRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// FeedbackSummary - агрегированные отзывы события
type FeedbackSummary struct {
	EventID       int64      `json:"event_id"`
	Count         int        `json:"count"`
	AverageRating float64    `json:"average_rating"`
	Items         []Feedback `json:"items"`
}

// CreateBillRequest - модель расхода организатора
type CreateBillRequest struct {
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents" binding:"required,gt=0"`
	BillDate    time.Time `json:"bill_date"`
}

// FinanceSummary - финансовая сводка события
type FinanceSummary struct {
	EventID       int64           `json:"event_id"`
	TicketsSold   int             `json:"tickets_sold"`
	RevenueCents  int64           `json:"revenue_cents"`
	ExpensesCents int64           `json:"expenses_cents"`
	ProfitCents   int64           `json:"profit_cents"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// FinancialInsights - текстовые рекомендации по финансам события
type FinancialInsights struct {
	EventID  int64    `json:"event_id"`
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
	Fallback bool     `json:"fallback"`
}

// AnalyzeReceiptRequest - текст чека для анализа
type AnalyzeReceiptRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReceiptAnalysis - результат анализа чека
type ReceiptAnalysis struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Fallback    bool   `json:"fallback"`
}

// GeneratedEmail - письмо, сгенерированное функцией generate-email
type GeneratedEmail struct {
	Subject  string `json:"subject"`
	Content  string `json:"content"`
	Fallback bool   `json:"fallback"`
}

// Recommendation - рекомендованное событие с оценкой
type Recommendation struct {
	Event  Event    `json:"event"`
	Score  int      `json:"score"`
	Reason []string `json:"reasons"`
}
