package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "eventro/internal/errors"
	"eventro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReminderFixture(functions *fakeFunctions, mailer Mailer) (*ReminderService, *fakeReminders, *fixture) {
	f := newFixture()
	reminders := newFakeReminders()
	svc := NewReminderService(f.events, f.profiles, f.tickets, reminders, NewAIService(functions), functions, mailer, f.notifier, f.clock)
	return svc, reminders, f
}

func TestReminderService_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sends once per holder", func(t *testing.T) {
		functions := &fakeFunctions{reminderOK: true}
		svc, _, f := newReminderFixture(functions, nil)

		run, err := svc.RunOnce(ctx, 72*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, ReminderRun{Events: 2, Sent: 2}, run)
		require.Len(t, functions.reminders, 2)
		assert.Contains(t, functions.reminders[0].Subject, "Go Conf")

		run, err = svc.RunOnce(ctx, 72*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, run.Sent)
		assert.Len(t, functions.reminders, 2)

		assert.Equal(t, 2, f.notifier.count())
		assert.Equal(t, models.NotificationReminder, f.notifier.sent[0].Type)
	})

	t.Run("events outside the lead window are skipped", func(t *testing.T) {
		functions := &fakeFunctions{reminderOK: true}
		svc, _, _ := newReminderFixture(functions, nil)

		run, err := svc.RunOnce(ctx, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, ReminderRun{}, run)
	})

	t.Run("falls back to smtp", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc, _, _ := newReminderFixture(&fakeFunctions{}, mailer)

		run, err := svc.RunOnce(ctx, 72*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 2, run.Sent)
		assert.ElementsMatch(t, []string{"evt-1-ab12cd34@example.com", "evt-2-ab12ff00@example.com"}, mailer.sent)
	})

	t.Run("failed delivery releases the claim", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("smtp down")}
		svc, reminders, f := newReminderFixture(&fakeFunctions{}, mailer)

		run, err := svc.RunOnce(ctx, 72*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, ReminderRun{Events: 2, Failed: 2}, run)
		assert.Empty(t, reminders.claimed)
		assert.Zero(t, f.notifier.count())
	})
}

func TestReminderService_Preview(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newReminderFixture(&fakeFunctions{}, nil)

	email, err := svc.Preview(ctx, organizerID, 1)
	require.NoError(t, err)
	assert.True(t, email.Fallback)
	assert.Contains(t, email.Content, "Hello Ada Lovelace")

	_, err = svc.Preview(ctx, strangerID, 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
