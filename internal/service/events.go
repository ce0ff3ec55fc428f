package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"eventro/internal/database"
	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/models"
	"eventro/internal/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type EventService struct {
	guard    organizerGuard
	events   EventStore
	profiles ProfileStore
	tickets  TicketStore
	cache    EventCache
	index    EventIndex
	store    ObjectStore
}

// NewEventService creates the service; cache, index and store may be nil
func NewEventService(events EventStore, profiles ProfileStore, tickets TicketStore, cache EventCache, index EventIndex, store ObjectStore) *EventService {
	return &EventService{
		guard:    organizerGuard{events: events, profiles: profiles},
		events:   events,
		profiles: profiles,
		tickets:  tickets,
		cache:    cache,
		index:    index,
		store:    store,
	}
}

// Create publishes a new event organized by the acting user
func (s *EventService) Create(ctx context.Context, actorID string, req *models.CreateEventRequest) (*models.Event, error) {
	actor, err := s.profiles.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if actor == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Location:    strings.TrimSpace(req.Location),
		Organizer:   actor.FullName(),
		OrganizerID: &actor.ID,
		PriceCents:  req.PriceCents,
		Category:    normalizeCategory(req.Category),
		Tags:        normalizeTags(req.Tags),
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	base := slug.Make(event.Title)
	if base == "" {
		base = "event"
	}
	event.Slug = base

	for attempt := 0; ; attempt++ {
		err = s.events.Create(ctx, event)
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) || attempt >= 3 {
			return nil, fmt.Errorf("failed to create event: %w", err)
		}
		event.Slug = base + "-" + uuid.New().String()[:6]
	}

	logger.WithContext(ctx).Info("Event created", "event_id", event.ID, "slug", event.Slug)
	s.reindex(ctx, event)
	return event, nil
}

// Update changes the fields present in req; only the organizer may update
func (s *EventService) Update(ctx context.Context, actorID string, id int64, req *models.UpdateEventRequest) (*models.Event, error) {
	event, _, err := s.guard.require(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.StartAt != nil {
		event.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		event.EndAt = *req.EndAt
	}
	if req.Location != nil {
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.PriceCents != nil {
		event.PriceCents = *req.PriceCents
	}
	if req.Category != nil {
		event.Category = normalizeCategory(*req.Category)
	}
	if req.Tags != nil {
		event.Tags = normalizeTags(req.Tags)
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidate(ctx, event.ID)
	s.reindex(ctx, event)
	return event, nil
}

// Get reads through the cache when one is configured
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	log := logger.WithContext(ctx)

	if s.cache != nil {
		cached, err := s.cache.GetEvent(ctx, id)
		if err != nil {
			log.Warn("Event cache read failed", "event_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetEvent(ctx, event); err != nil {
			log.Warn("Event cache write failed", "event_id", id, "error", err)
		}
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	filter = normalizeFilter(filter)
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Search uses the full-text index when available and falls back to List
func (s *EventService) Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	filter = normalizeFilter(filter)
	if s.index != nil {
		events, err := s.index.Search(ctx, filter)
		if err == nil {
			return events, nil
		}
		logger.WithContext(ctx).Warn("Search index unavailable, falling back to database", "error", err)
	}
	return s.List(ctx, filter)
}

func (s *EventService) UploadImage(ctx context.Context, actorID string, id int64, file Upload) (*models.Event, error) {
	event, _, err := s.guard.require(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, apperrors.ErrStorageDisabled
	}

	key := storage.ObjectKey("events", strconv.FormatInt(id, 10), file.Filename)
	url, err := s.store.Upload(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload event image: %w", err)
	}

	if err := s.events.UpdateImageURL(ctx, id, url); err != nil {
		return nil, fmt.Errorf("failed to save event image: %w", err)
	}
	event.ImageURL = &url

	s.invalidate(ctx, id)
	s.reindex(ctx, event)
	return event, nil
}

// Attendees lists ticket holders for the organizer
func (s *EventService) Attendees(ctx context.Context, actorID string, id int64) ([]models.TicketHolder, error) {
	if _, _, err := s.guard.require(ctx, actorID, id); err != nil {
		return nil, err
	}

	holders, err := s.tickets.ListHolders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	return holders, nil
}

// Reindex pushes every event into the search index; returns the number indexed
func (s *EventService) Reindex(ctx context.Context, batchSize int) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("search index is not configured")
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	indexed := 0
	var afterID int64
	for {
		events, err := s.events.ListAfterID(ctx, afterID, batchSize)
		if err != nil {
			return indexed, fmt.Errorf("failed to read events: %w", err)
		}
		if len(events) == 0 {
			return indexed, nil
		}

		for i := range events {
			if err := s.index.IndexEvent(ctx, &events[i]); err != nil {
				return indexed, fmt.Errorf("failed to index event %d: %w", events[i].ID, err)
			}
			indexed++
		}
		afterID = events[len(events)-1].ID
	}
}

func (s *EventService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteEvent(ctx, id); err != nil {
		logger.WithContext(ctx).Warn("Event cache invalidation failed", "event_id", id, "error", err)
	}
}

func (s *EventService) reindex(ctx context.Context, event *models.Event) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to index event", "event_id", event.ID, "error", err)
	}
}

func validateEvent(event *models.Event) error {
	switch {
	case event.Title == "":
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	case event.Location == "":
		return fmt.Errorf("%w: location is required", apperrors.ErrInvalidInput)
	case event.StartAt.IsZero() || event.EndAt.IsZero():
		return fmt.Errorf("%w: start and end time are required", apperrors.ErrInvalidInput)
	case event.EndAt.Before(event.StartAt):
		return fmt.Errorf("%w: event ends before it starts", apperrors.ErrInvalidInput)
	case event.PriceCents < 0:
		return fmt.Errorf("%w: price cannot be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

func normalizeFilter(filter models.EventFilter) models.EventFilter {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Category = normalizeCategory(filter.Category)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	return filter
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// normalizeTags lowercases, trims and dedupes tags keeping their order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
