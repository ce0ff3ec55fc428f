package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"eventro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	err      error
	recorded []models.NotificationRequestedEvent
}

func (f *fakeRecorder) Record(ctx context.Context, req models.NotificationRequestedEvent) (*models.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorded = append(f.recorded, req)
	return &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   "Checked in to " + req.EventTitle,
		Message: "You have been checked in <day 1>.",
	}, nil
}

type fakeProfiles struct {
	profile *models.Profile
	err     error
}

func (f *fakeProfiles) Get(ctx context.Context, id string) (*models.Profile, error) {
	return f.profile, f.err
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func notificationPayload(t *testing.T) []byte {
	data, err := json.Marshal(models.NotificationRequestedEvent{
		UserID:     "user-1",
		EventID:    7,
		EventTitle: "Go Conf",
		Type:       models.NotificationCheckIn,
		DayNumber:  1,
	})
	require.NoError(t, err)
	return data
}

func TestProcessNotification_RecordsAndEmails(t *testing.T) {
	recorder := &fakeRecorder{}
	mailer := &fakeMailer{}
	profiles := &fakeProfiles{profile: &models.Profile{ID: "user-1", FirstName: "Aida", Email: "aida@example.com"}}
	h := NewHandlers(recorder, profiles, mailer)

	err := h.processNotification(context.Background(), notificationPayload(t))
	require.NoError(t, err)

	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, int64(7), recorder.recorded[0].EventID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "aida@example.com", mailer.sent[0].to)
	assert.Equal(t, "Checked in to Go Conf", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "&lt;day 1&gt;")
}

func TestProcessNotification_RecordFailureIsRedelivered(t *testing.T) {
	mailer := &fakeMailer{}
	h := NewHandlers(&fakeRecorder{err: errors.New("db down")}, &fakeProfiles{}, mailer)

	err := h.processNotification(context.Background(), notificationPayload(t))
	assert.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestProcessNotification_MalformedIsDropped(t *testing.T) {
	recorder := &fakeRecorder{}
	h := NewHandlers(recorder, &fakeProfiles{}, nil)

	err := h.processNotification(context.Background(), []byte("{not json"))
	assert.NoError(t, err)
	assert.Empty(t, recorder.recorded)
}

func TestProcessNotification_EmailIsBestEffort(t *testing.T) {
	tests := []struct {
		name     string
		profiles *fakeProfiles
		mailer   *fakeMailer
	}{
		{"profile lookup fails", &fakeProfiles{err: errors.New("boom")}, &fakeMailer{}},
		{"profile without email", &fakeProfiles{profile: &models.Profile{ID: "user-1"}}, &fakeMailer{}},
		{"smtp fails", &fakeProfiles{profile: &models.Profile{ID: "user-1", Email: "a@example.com"}}, &fakeMailer{err: errors.New("smtp")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &fakeRecorder{}
			h := NewHandlers(recorder, tt.profiles, tt.mailer)

			err := h.processNotification(context.Background(), notificationPayload(t))
			assert.NoError(t, err)
			assert.Len(t, recorder.recorded, 1)
			assert.Empty(t, tt.mailer.sent)
		})
	}
}

func TestProcessNotification_NoMailer(t *testing.T) {
	recorder := &fakeRecorder{}
	h := NewHandlers(recorder, &fakeProfiles{}, nil)

	require.NoError(t, h.processNotification(context.Background(), notificationPayload(t)))
	assert.Len(t, recorder.recorded, 1)
}
