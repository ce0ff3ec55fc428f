package service

import (
	"context"
	"fmt"
	"math"

	"eventro/internal/database"
	apperrors "eventro/internal/errors"
	"eventro/internal/models"
)

type FeedbackService struct {
	feedback FeedbackStore
	events   EventStore
}

func NewFeedbackService(feedback FeedbackStore, events EventStore) *FeedbackService {
	return &FeedbackService{feedback: feedback, events: events}
}

// Submit stores the user's rating, replacing a previous one for the same event
func (s *FeedbackService) Submit(ctx context.Context, userID string, eventID int64, req *models.FeedbackRequest) (*models.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrInvalidInput)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	f := &models.Feedback{
		EventID: eventID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.feedback.Upsert(ctx, f); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) Summary(ctx context.Context, eventID int64) (*models.FeedbackSummary, error) {
	items, err := s.feedback.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	summary := &models.FeedbackSummary{EventID: eventID, Count: len(items), Items: items}
	if len(items) > 0 {
		total := 0
		for _, f := range items {
			total += f.Rating
		}
		summary.AverageRating = math.Round(float64(total)/float64(len(items))*100) / 100
	}
	return summary, nil
}
