package service

import (
	"eventro/internal/clock"
	"eventro/internal/external"
	"eventro/internal/models"
	"eventro/internal/repository"
)

// Deps carries the optional components. A nil field disables the feature it
// backs, so callers must leave it untyped nil rather than a nil pointer.
// Functions and Notifier fall back to disabled implementations.
type Deps struct {
	EventCache   EventCache
	ProfileCache ProfileCache
	Index        EventIndex
	Store        ObjectStore
	Notifier     Notifier
	Functions    Functions
	Mailer       Mailer
	Clock        clock.Clock
}

type Services struct {
	Events          *EventService
	Profiles        *ProfileService
	Tickets         *TicketService
	CheckIns        *CheckInService
	Distributions   *DistributionService
	Notifications   *NotificationService
	Messages        *MessageService
	Feedback        *FeedbackService
	Favorites       *FavoriteService
	Finance         *FinanceService
	AI              *AIService
	Recommendations *RecommendationService
	Reminders       *ReminderService
}

func NewServices(repos *repository.Repositories, deps Deps) *Services {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	if deps.Functions == nil {
		deps.Functions = external.NewFunctionsClient(external.FunctionsConfig{})
	}
	if deps.Notifier == nil {
		deps.Notifier = discardNotifier{}
	}

	ticketService := NewTicketService(repos.Tickets, repos.Events, repos.Profiles)
	aiService := NewAIService(deps.Functions)

	return &Services{
		Events:          NewEventService(repos.Events, repos.Profiles, repos.Tickets, deps.EventCache, deps.Index, deps.Store),
		Profiles:        NewProfileService(repos.Profiles, deps.ProfileCache, deps.Store),
		Tickets:         ticketService,
		CheckIns:        NewCheckInService(ticketService, repos.Tickets, repos.Events, repos.Profiles, repos.CheckIns, deps.Notifier, clk),
		Distributions:   NewDistributionService(ticketService, repos.Events, repos.Profiles, repos.Attendees, repos.Distributions, deps.Notifier, clk),
		Notifications:   NewNotificationService(repos.Notifications),
		Messages:        NewMessageService(repos.Messages, repos.Profiles, repos.Events, repos.Tickets, deps.Notifier, clk),
		Feedback:        NewFeedbackService(repos.Feedback, repos.Events),
		Favorites:       NewFavoriteService(repos.Favorites, repos.Events),
		Finance:         NewFinanceService(repos.Bills, repos.Tickets, repos.Events, repos.Profiles, aiService, deps.Store, clk),
		AI:              aiService,
		Recommendations: NewRecommendationService(repos.Events, repos.Tickets, clk),
		Reminders:       NewReminderService(repos.Events, repos.Profiles, repos.Tickets, repos.Reminders, aiService, deps.Functions, deps.Mailer, deps.Notifier, clk),
	}
}

// discardNotifier используется утилитами, которые не отправляют уведомлений
type discardNotifier struct{}

func (discardNotifier) Dispatch(models.NotificationRequestedEvent) bool { return false }
