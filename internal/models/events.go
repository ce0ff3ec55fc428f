package models

import "time"

// NATS Event Types
const (
	EventNotificationRequested = "notification.requested"
)

// Notification types
const (
	NotificationCheckIn      = "check_in"
	NotificationDistribution = "distribution"
	NotificationMessage      = "message"
	NotificationReminder     = "reminder"
)

// NotificationRequestedEvent asks the consumers to persist and deliver a notification.
// DayNumber is set for check-ins and distributions, ItemType only for distributions.
type NotificationRequestedEvent struct {
	UserID     string    `json:"user_id"`
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	Type       string    `json:"type"`
	DayNumber  int       `json:"day_number,omitempty"`
	ItemType   string    `json:"item_type,omitempty"`
	Text       string    `json:"text,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
