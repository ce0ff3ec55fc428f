package models

import (
	"strings"
	"time"
)

// Profile represents a user profile. ID equals the auth provider user id.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	BannerURL *string   `json:"banner_url" db:"banner_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns "first last" with surrounding whitespace removed
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Event represents an event in the system
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	StartAt     time.Time `json:"start_at" db:"start_at"`
	EndAt       time.Time `json:"end_at" db:"end_at"`
	Location    string    `json:"location" db:"location"`
	Organizer   string    `json:"organizer" db:"organizer"`
	OrganizerID *string   `json:"organizer_id" db:"organizer_id"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags" db:"tags"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Days returns the number of calendar days the event spans, at least 1
func (e *Event) Days() int {
	if e.EndAt.Before(e.StartAt) {
		return 1
	}
	start := time.Date(e.StartAt.Year(), e.StartAt.Month(), e.StartAt.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(e.EndAt.Year(), e.EndAt.Month(), e.EndAt.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// Ticket represents an admission record tied to a user and an event
type Ticket struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	Code        string    `json:"ticket_code" db:"ticket_code"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

// TicketHolder is a ticket joined with its owner's profile
type TicketHolder struct {
	TicketID   string `json:"ticket_id"`
	TicketCode string `json:"ticket_code"`
	UserID     string `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

// CheckIn records that a ticket was admitted on a given event day
type CheckIn struct {
	ID          string    `json:"id" db:"id"`
	TicketID    string    `json:"ticket_id" db:"ticket_id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	DayNumber   int       `json:"day_number" db:"day_number"`
	CheckedInAt time.Time `json:"checked_in_at" db:"checked_in_at"`
	CheckedInBy *string   `json:"checked_in_by" db:"checked_in_by"`
}

// DayCount is the number of check-ins recorded on one event day
type DayCount struct {
	DayNumber int `json:"day_number"`
	Count     int `json:"count"`
}

// Attendee is the identity used by the distribution feature, matched by email
type Attendee struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Company    *string   `json:"company" db:"company"`
	Position   *string   `json:"position" db:"position"`
	UniqueCode string    `json:"unique_code" db:"unique_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Distribution records that an item was handed to an attendee
type Distribution struct {
	ID            string    `json:"id" db:"id"`
	AttendeeID    string    `json:"attendee_id" db:"attendee_id"`
	ItemType      string    `json:"item_type" db:"item_type"`
	EventID       int64     `json:"event_id" db:"event_id"`
	DayNumber     int       `json:"day_number" db:"day_number"`
	DistributedAt time.Time `json:"distributed_at" db:"distributed_at"`
	DistributedBy *string   `json:"distributed_by" db:"distributed_by"`
}

// Notification is an in-app notification owned by a user
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	EventID   *int64    `json:"event_id" db:"event_id"`
	Type      string    `json:"type" db:"type"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Message is a direct message between two users, optionally about an event
type Message struct {
	ID          string    `json:"id" db:"id"`
	EventID     *int64    `json:"event_id" db:"event_id"`
	SenderID    string    `json:"sender_id" db:"sender_id"`
	RecipientID string    `json:"recipient_id" db:"recipient_id"`
	Subject     string    `json:"subject" db:"subject"`
	Body        string    `json:"body" db:"body"`
	Read        bool      `json:"read" db:"read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Feedback is a user's rating of an event
type Feedback struct {
	ID        string    `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Bill is an expense recorded by an organizer against an event
type Bill struct {
	ID          string    `json:"id" db:"id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	ReceiptURL  *string   `json:"receipt_url" db:"receipt_url"`
	BillDate    time.Time `json:"bill_date" db:"bill_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CategoryTotal is the sum of bills in one category
type CategoryTotal struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}
