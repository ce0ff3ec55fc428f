package service

import (
	"time"

	"eventro/internal/clock"
	"eventro/internal/models"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const (
	organizerID = "6f1f4c52-9d55-4f3b-8a2e-1b7a8f3c0a01"
	attendeeID  = "0b3e2d7c-51a4-4c8e-9f0b-2a6d1e4f7b02"
	strangerID  = "c9a7e1f0-3b2d-4e5a-8c6f-7d9e0a1b2c03"
	ticketAID   = "2a1b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c05"
	ticketBID   = "3b2c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d06"
)

func fixtureProfiles() *fakeProfiles {
	return newFakeProfiles(
		models.Profile{ID: organizerID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		models.Profile{ID: attendeeID, FirstName: "Alan", LastName: "Turing", Email: "Alan@Example.com"},
		models.Profile{ID: strangerID, FirstName: "Eve", LastName: "Mallory", Email: "eve@example.com"},
	)
}

func fixtureEvent(id int64) models.Event {
	org := organizerID
	return models.Event{
		ID:          id,
		Slug:        "go-conf",
		Title:       "Go Conf",
		StartAt:     testNow.Add(48 * time.Hour),
		EndAt:       testNow.Add(72 * time.Hour),
		Location:    "Almaty",
		Organizer:   "Ada Lovelace",
		OrganizerID: &org,
		PriceCents:  5000,
		Category:    "tech",
		Tags:        []string{"go", "backend"},
	}
}

// ticketA is older than ticketB so partial matches prefer it
func fixtureTickets() *fakeTickets {
	return newFakeTickets(
		models.Ticket{ID: ticketAID, UserID: attendeeID, EventID: 1, Code: "EVT-1-AB12CD34", PurchasedAt: testNow.Add(-2 * time.Hour)},
		models.Ticket{ID: ticketBID, UserID: strangerID, EventID: 2, Code: "EVT-2-AB12FF00", PurchasedAt: testNow.Add(-time.Hour)},
	)
}

type fixture struct {
	profiles      *fakeProfiles
	events        *fakeEvents
	tickets       *fakeTickets
	checkIns      *fakeCheckIns
	attendees     *fakeAttendees
	distributions *fakeDistributions
	notifier      *fakeNotifier
	clock         clock.Clock
}

func newFixture() *fixture {
	return &fixture{
		profiles:      fixtureProfiles(),
		events:        newFakeEvents(fixtureEvent(1), fixtureEvent(2)),
		tickets:       fixtureTickets(),
		checkIns:      newFakeCheckIns(),
		attendees:     newFakeAttendees(),
		distributions: newFakeDistributions(),
		notifier:      &fakeNotifier{},
		clock:         clock.NewFixed(testNow),
	}
}

func (f *fixture) ticketService() *TicketService {
	return NewTicketService(f.tickets, f.events, f.profiles)
}

func (f *fixture) checkInService() *CheckInService {
	return NewCheckInService(f.ticketService(), f.tickets, f.events, f.profiles, f.checkIns, f.notifier, f.clock)
}

func (f *fixture) distributionService() *DistributionService {
	return NewDistributionService(f.ticketService(), f.events, f.profiles, f.attendees, f.distributions, f.notifier, f.clock)
}
