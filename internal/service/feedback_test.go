package service

import (
	"context"
	"testing"

	apperrors "eventro/internal/errors"
	"eventro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeedback struct {
	items map[string]models.Feedback
}

func (f *fakeFeedback) Upsert(_ context.Context, fb *models.Feedback) error {
	f.items[fb.UserID] = *fb
	return nil
}

func (f *fakeFeedback) ListByEvent(_ context.Context, eventID int64) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, fb := range f.items {
		if fb.EventID == eventID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func TestFeedbackService(t *testing.T) {
	ctx := context.Background()
	store := &fakeFeedback{items: map[string]models.Feedback{}}
	svc := NewFeedbackService(store, newFakeEvents(fixtureEvent(1)))

	_, err := svc.Submit(ctx, attendeeID, 1, &models.FeedbackRequest{Rating: 6})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Submit(ctx, attendeeID, 9, &models.FeedbackRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	for _, r := range []struct {
		user   string
		rating int
	}{{attendeeID, 2}, {attendeeID, 5}, {strangerID, 4}, {organizerID, 4}} {
		_, err := svc.Submit(ctx, r.user, 1, &models.FeedbackRequest{Rating: r.rating})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count, "resubmitting replaces the previous rating")
	assert.Equal(t, 4.33, summary.AverageRating)
}
