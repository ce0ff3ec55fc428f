package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"eventro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTickets(t *testing.T) {
	input := `user_id,ticket_code
8d3c2b1a-4f5e-4a6b-9c7d-0e1f2a3b4c5d, EVT-1-AB12CD34
1f0e2d3c-4b5a-4697-8877-665544332211

2a1b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d,`

	tickets, err := parseTickets(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	assert.Equal(t, "8d3c2b1a-4f5e-4a6b-9c7d-0e1f2a3b4c5d", tickets[0].UserID)
	assert.Equal(t, "EVT-1-AB12CD34", tickets[0].Code)
	assert.Equal(t, "1f0e2d3c-4b5a-4697-8877-665544332211", tickets[1].UserID)
	assert.Empty(t, tickets[1].Code)
	assert.Empty(t, tickets[2].Code)
}

func TestParseTickets_TooManyColumns(t *testing.T) {
	_, err := parseTickets(strings.NewReader("u1,code,extra\n"))
	assert.Error(t, err)
}

type recordingImporter struct {
	batches []int
	failAt  int
}

func (r *recordingImporter) Import(ctx context.Context, eventID int64, tickets []*models.Ticket) (int, error) {
	if r.failAt > 0 && len(r.batches)+1 == r.failAt {
		return 0, errors.New("db down")
	}
	r.batches = append(r.batches, len(tickets))
	return len(tickets) - 1, nil
}

func TestImportTickets_Batches(t *testing.T) {
	tickets := make([]*models.Ticket, 5)
	for i := range tickets {
		tickets[i] = &models.Ticket{}
	}

	importer := &recordingImporter{}
	imported, err := importTickets(context.Background(), importer, 1, tickets, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, importer.batches)
	assert.Equal(t, 2, imported)
}

func TestImportTickets_StopsOnError(t *testing.T) {
	tickets := make([]*models.Ticket, 4)
	for i := range tickets {
		tickets[i] = &models.Ticket{}
	}

	importer := &recordingImporter{failAt: 2}
	imported, err := importTickets(context.Background(), importer, 1, tickets, 2)
	require.Error(t, err)
	assert.Equal(t, 1, imported)
}
