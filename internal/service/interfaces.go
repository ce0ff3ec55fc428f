package service

import (
	"context"
	"io"
	"time"

	"eventro/internal/external"
	"eventro/internal/models"
)

// Хранилища, которые используют сервисы. Реализации в internal/repository,
// в тестах используются in-memory заглушки.

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateAvatarURL(ctx context.Context, id, url string) error
	UpdateBannerURL(ctx context.Context, id, url string) error
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateImageURL(ctx context.Context, id int64, url string) error
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
	ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.Event, error)
	ListAfterID(ctx context.Context, afterID int64, limit int) ([]models.Event, error)
	ListEngagedByUser(ctx context.Context, userID string) ([]models.Event, error)
}

type TicketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	CreateBatch(ctx context.Context, tickets []*models.Ticket) (int, error)
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	GetByCode(ctx context.Context, code string) (*models.Ticket, error)
	FindByPartialCode(ctx context.Context, fragment string) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	ListHolders(ctx context.Context, eventID int64) ([]models.TicketHolder, error)
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

type CheckInStore interface {
	Create(ctx context.Context, checkIn *models.CheckIn) (bool, error)
	GetByTicketAndDay(ctx context.Context, ticketID string, dayNumber int) (*models.CheckIn, error)
	ListByEvent(ctx context.Context, eventID int64, dayNumber int) ([]models.CheckIn, error)
	CountByDay(ctx context.Context, eventID int64) ([]models.DayCount, error)
}

type AttendeeStore interface {
	Resolve(ctx context.Context, attendee *models.Attendee) error
}

type DistributionStore interface {
	Create(ctx context.Context, d *models.Distribution) (bool, error)
	GetByAttendeeAndItem(ctx context.Context, attendeeID, itemType string) (*models.Distribution, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Distribution, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	CreateBatch(ctx context.Context, messages []*models.Message) error
	ListInbox(ctx context.Context, userID string) ([]models.Message, error)
	ListSent(ctx context.Context, userID string) ([]models.Message, error)
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
}

type FeedbackStore interface {
	Upsert(ctx context.Context, f *models.Feedback) error
	ListByEvent(ctx context.Context, eventID int64) ([]models.Feedback, error)
}

type FavoriteStore interface {
	Add(ctx context.Context, userID string, eventID int64) error
	Remove(ctx context.Context, userID string, eventID int64) error
	ListEvents(ctx context.Context, userID string) ([]models.Event, error)
}

type BillStore interface {
	Create(ctx context.Context, b *models.Bill) error
	GetByID(ctx context.Context, id string) (*models.Bill, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Bill, error)
	Delete(ctx context.Context, id string, eventID int64) (bool, error)
	UpdateReceiptURL(ctx context.Context, id, url string) error
	TotalsByCategory(ctx context.Context, eventID int64) ([]models.CategoryTotal, error)
}

type ReminderStore interface {
	Claim(ctx context.Context, eventID int64, userID string) (bool, error)
	Release(ctx context.Context, eventID int64, userID string) error
}

// Внешние компоненты. Все необязательны, кроме Functions.

type EventCache interface {
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	SetEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

type ProfileCache interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	SetProfile(ctx context.Context, profile *models.Profile) error
	DeleteProfile(ctx context.Context, id string) error
}

type EventIndex interface {
	Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	IndexEvent(ctx context.Context, event *models.Event) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type Notifier interface {
	Dispatch(n models.NotificationRequestedEvent) bool
}

type Functions interface {
	GenerateEmail(ctx context.Context, req external.GenerateEmailRequest) (*external.GenerateEmailResponse, error)
	AnalyzeReceipt(ctx context.Context, req external.AnalyzeReceiptRequest) (*external.AnalyzeReceiptResponse, error)
	FinancialInsights(ctx context.Context, req external.FinancialInsightsRequest) (*external.FinancialInsightsResponse, error)
	SendReminderEmail(ctx context.Context, req external.SendReminderEmailRequest) error
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Upload describes a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}
