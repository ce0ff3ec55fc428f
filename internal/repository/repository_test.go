package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventro/internal/models"
	"eventro/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInRepository_UniquePerTicketAndDay(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	org := testutil.InsertProfile(t, db, "Olga", "Organizer", "olga@example.com")
	guest := testutil.InsertProfile(t, db, "Gus", "Guest", "gus@example.com")
	event := testutil.InsertEvent(t, db, "DevFest", org, time.Now().Add(time.Hour))
	ticket := testutil.InsertTicket(t, db, guest.ID, event.ID, "EVT-1-AAAA0001")

	first := &models.CheckIn{TicketID: ticket.ID, EventID: event.ID, DayNumber: 1, CheckedInBy: &org.ID}
	inserted, err := repos.CheckIns.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, first.ID)

	inserted, err = repos.CheckIns.Create(ctx, &models.CheckIn{TicketID: ticket.ID, EventID: event.ID, DayNumber: 1})
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = repos.CheckIns.Create(ctx, &models.CheckIn{TicketID: ticket.ID, EventID: event.ID, DayNumber: 2})
	require.NoError(t, err)
	assert.True(t, inserted)

	existing, err := repos.CheckIns.GetByTicketAndDay(ctx, ticket.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, first.ID, existing.ID)

	day1, err := repos.CheckIns.ListByEvent(ctx, event.ID, 1)
	require.NoError(t, err)
	assert.Len(t, day1, 1)

	counts, err := repos.CheckIns.CountByDay(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.DayCount{{DayNumber: 1, Count: 1}, {DayNumber: 2, Count: 1}}, counts)
}

func TestDistributionRepository_ConcurrentInsertsKeepOneRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	org := testutil.InsertProfile(t, db, "Olga", "Organizer", "olga@example.com")
	event := testutil.InsertEvent(t, db, "DevFest", org, time.Now().Add(time.Hour))

	attendee := &models.Attendee{Name: "Gus Guest", Email: "gus@example.com", UniqueCode: "ATT-1"}
	require.NoError(t, repos.Attendees.Resolve(ctx, attendee))

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := repos.Distributions.Create(ctx, &models.Distribution{
				AttendeeID: attendee.ID, ItemType: "t-shirt", EventID: event.ID, DayNumber: 1,
			})
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	inserted := 0
	for _, ok := range results {
		if ok {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)

	items, err := repos.Distributions.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAttendeeRepository_ResolveReturnsExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	first := &models.Attendee{Name: "Gus Guest", Email: "gus@example.com", UniqueCode: "ATT-1"}
	require.NoError(t, repos.Attendees.Resolve(ctx, first))

	second := &models.Attendee{Name: "Other Name", Email: "gus@example.com", UniqueCode: "ATT-2"}
	require.NoError(t, repos.Attendees.Resolve(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Gus Guest", second.Name)
	assert.Equal(t, "ATT-1", second.UniqueCode)
}

func TestTicketRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	org := testutil.InsertProfile(t, db, "Olga", "Organizer", "olga@example.com")
	guest := testutil.InsertProfile(t, db, "Gus", "Guest", "gus@example.com")
	event := testutil.InsertEvent(t, db, "DevFest", org, time.Now().Add(time.Hour))
	older := testutil.InsertTicket(t, db, guest.ID, event.ID, "EVT-1-ABCD0001")
	testutil.InsertTicket(t, db, guest.ID, event.ID, "EVT-1-ABCD0002")

	byCode, err := repos.Tickets.GetByCode(ctx, "EVT-1-ABCD0001")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, older.ID, byCode.ID)

	partial, err := repos.Tickets.FindByPartialCode(ctx, "abcd")
	require.NoError(t, err)
	require.NotNil(t, partial)
	assert.Equal(t, older.ID, partial.ID)

	missing, err := repos.Tickets.FindByPartialCode(ctx, "100%")
	require.NoError(t, err)
	assert.Nil(t, missing)

	holders, err := repos.Tickets.ListHolders(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, holders, 2)
	assert.Equal(t, "gus@example.com", holders[0].Email)

	count, err := repos.Tickets.CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	inserted, err := repos.Tickets.CreateBatch(ctx, []*models.Ticket{
		{UserID: guest.ID, EventID: event.ID, Code: "EVT-1-ABCD0001"},
		{UserID: guest.ID, EventID: event.ID, Code: "EVT-1-NEW00001"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestEventRepository_CreateListUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	org := testutil.InsertProfile(t, db, "Olga", "Organizer", "olga@example.com")
	start := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)

	event := &models.Event{
		Slug: "jazz-night", Title: "Jazz Night", StartAt: start, EndAt: start.Add(3 * time.Hour),
		Location: "Blue Room", Organizer: org.FullName(), OrganizerID: &org.ID,
		Category: "music", Tags: []string{"jazz", "live"},
	}
	require.NoError(t, repos.Events.Create(ctx, event))
	require.NotZero(t, event.ID)

	got, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"jazz", "live"}, got.Tags)
	assert.Equal(t, org.ID, *got.OrganizerID)

	list, err := repos.Events.List(ctx, models.EventFilter{Query: "jazz", Category: "music", Date: "2030-05-01", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = repos.Events.List(ctx, models.EventFilter{Category: "sports"})
	require.NoError(t, err)
	assert.Empty(t, list)

	got.Title = "Jazz Night II"
	got.Tags = nil
	require.NoError(t, repos.Events.Update(ctx, got))

	updated, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night II", updated.Title)
	assert.Empty(t, updated.Tags)

	none, err := repos.Events.GetByID(ctx, event.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReminderRepository_ClaimRelease(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	org := testutil.InsertProfile(t, db, "Olga", "Organizer", "olga@example.com")
	event := testutil.InsertEvent(t, db, "DevFest", org, time.Now().Add(time.Hour))

	claimed, err := repos.Reminders.Claim(ctx, event.ID, org.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repos.Reminders.Claim(ctx, event.ID, org.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repos.Reminders.Release(ctx, event.ID, org.ID))
	claimed, err = repos.Reminders.Claim(ctx, event.ID, org.ID)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestNotificationRepository_Ownership(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	owner := testutil.InsertProfile(t, db, "Ann", "Owner", "ann@example.com")
	other := testutil.InsertProfile(t, db, "Bob", "Other", "bob@example.com")

	n := &models.Notification{UserID: owner.ID, Type: models.NotificationCheckIn, Title: "Checked in", Message: "Day 1"}
	require.NoError(t, repos.Notifications.Create(ctx, n))

	ok, err := repos.Notifications.MarkRead(ctx, n.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	unread, err := repos.Notifications.ListByUser(ctx, owner.ID, true, 50)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	affected, err := repos.Notifications.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	unread, err = repos.Notifications.ListByUser(ctx, owner.ID, true, 50)
	require.NoError(t, err)
	assert.Empty(t, unread)

	ok, err = repos.Notifications.Delete(ctx, n.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
