package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"eventro/internal/clock"
	"eventro/internal/models"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
	// candidateWindow bounds how many upcoming events are scored per request
	candidateWindow = 500
)

const (
	categoryWeight = 3
	tagWeight      = 1
	queryWeight    = 1
)

type RecommendationService struct {
	events  EventStore
	tickets TicketStore
	clock   clock.Clock
}

func NewRecommendationService(events EventStore, tickets TicketStore, clk clock.Clock) *RecommendationService {
	return &RecommendationService{events: events, tickets: tickets, clock: clk}
}

// Recommend scores upcoming events the user holds no ticket for. Interests come
// from events the user has a ticket for or has favorited.
func (s *RecommendationService) Recommend(ctx context.Context, userID, query string, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		limit = defaultRecommendations
	}
	if limit > maxRecommendations {
		limit = maxRecommendations
	}

	engaged, err := s.events.ListEngagedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user events: %w", err)
	}

	owned, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user tickets: %w", err)
	}
	ticketed := make(map[int64]bool, len(owned))
	for _, t := range owned {
		ticketed[t.EventID] = true
	}

	candidates, err := s.events.ListUpcoming(ctx, s.clock.Now(), candidateWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	recs := ScoreEvents(engaged, candidates, ticketed, query)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// ScoreEvents ranks candidates against the interest profile built from engaged.
// Events in exclude and events that score zero are left out. Ties are broken
// by start time, earliest first.
func ScoreEvents(engaged, candidates []models.Event, exclude map[int64]bool, query string) []models.Recommendation {
	categories := make(map[string]bool)
	tags := make(map[string]bool)
	for _, e := range engaged {
		if e.Category != "" {
			categories[strings.ToLower(e.Category)] = true
		}
		for _, t := range e.Tags {
			tags[strings.ToLower(t)] = true
		}
	}
	keywords := keywordsOf(query)

	recs := make([]models.Recommendation, 0, len(candidates))
	for _, e := range candidates {
		if exclude[e.ID] {
			continue
		}

		score := 0
		var reasons []string

		if e.Category != "" && categories[strings.ToLower(e.Category)] {
			score += categoryWeight
			reasons = append(reasons, "category: "+e.Category)
		}
		for _, t := range e.Tags {
			if tags[strings.ToLower(t)] {
				score += tagWeight
				reasons = append(reasons, "tag: "+t)
			}
		}
		if len(keywords) > 0 && matchesKeywords(e, keywords) {
			score += queryWeight
			reasons = append(reasons, "matches search")
		}

		if score == 0 {
			continue
		}
		recs = append(recs, models.Recommendation{Event: e, Score: score, Reason: reasons})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Event.StartAt.Before(recs[j].Event.StartAt)
	})
	return recs
}

func keywordsOf(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := words[:0]
	for _, w := range words {
		if len([]rune(w)) >= 3 {
			out = append(out, w)
		}
	}
	return out
}

func matchesKeywords(e models.Event, keywords []string) bool {
	text := strings.ToLower(e.Title)
	if e.Description != nil {
		text += " " + strings.ToLower(*e.Description)
	}
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
