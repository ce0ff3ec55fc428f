package repository

import (
	"eventro/internal/database"
)

type Repositories struct {
	Profiles      *ProfileRepository
	Events        *EventRepository
	Tickets       *TicketRepository
	CheckIns      *CheckInRepository
	Attendees     *AttendeeRepository
	Distributions *DistributionRepository
	Notifications *NotificationRepository
	Messages      *MessageRepository
	Feedback      *FeedbackRepository
	Favorites     *FavoriteRepository
	Bills         *BillRepository
	Reminders     *ReminderRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Profiles:      NewProfileRepository(db),
		Events:        NewEventRepository(db),
		Tickets:       NewTicketRepository(db),
		CheckIns:      NewCheckInRepository(db),
		Attendees:     NewAttendeeRepository(db),
		Distributions: NewDistributionRepository(db),
		Notifications: NewNotificationRepository(db),
		Messages:      NewMessageRepository(db),
		Feedback:      NewFeedbackRepository(db),
		Favorites:     NewFavoriteRepository(db),
		Bills:         NewBillRepository(db),
		Reminders:     NewReminderRepository(db),
	}
}
