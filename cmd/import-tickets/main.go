package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"eventro/internal/config"
	"eventro/internal/database"
	"eventro/internal/external"
	"eventro/internal/logger"
	"eventro/internal/models"
	"eventro/internal/repository"
	"eventro/internal/service"
)

var (
	eventID   = flag.Int64("event", 0, "Event ID to import tickets for")
	file      = flag.String("file", "", "CSV file with user_id[,ticket_code] rows")
	batchSize = flag.Int("batch", 1000, "Tickets per insert batch")
	dryRun    = flag.Bool("dry-run", false, "Parse the file without writing to the database")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if *eventID <= 0 || *file == "" {
		logger.Fatal("Usage: import-tickets -event <id> -file <tickets.csv>")
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open file", "file", *file, "error", err)
	}
	defer f.Close()

	tickets, err := parseTickets(f)
	if err != nil {
		logger.Fatal("Failed to parse tickets", "file", *file, "error", err)
	}
	log.Info("Parsed tickets", "count", len(tickets), "event_id", *eventID)

	if *dryRun {
		log.Info("Dry run, nothing written")
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	services := service.NewServices(repository.NewRepositories(db), service.Deps{
		Functions: external.NewFunctionsClient(cfg.Functions),
	})

	start := time.Now()
	imported, err := importTickets(context.Background(), services.Tickets, *eventID, tickets, *batchSize)
	if err != nil {
		logger.Fatal("Ticket import failed", "imported", imported, "error", err)
	}

	log.Info("Ticket import completed",
		"event_id", *eventID,
		"parsed", len(tickets),
		"imported", imported,
		"skipped", len(tickets)-imported,
		"duration", time.Since(start).String())
}

type ticketImporter interface {
	Import(ctx context.Context, eventID int64, tickets []*models.Ticket) (int, error)
}

func importTickets(ctx context.Context, importer ticketImporter, eventID int64, tickets []*models.Ticket, batch int) (int, error) {
	if batch <= 0 {
		batch = 1000
	}

	imported := 0
	for start := 0; start < len(tickets); start += batch {
		end := min(start+batch, len(tickets))
		n, err := importer.Import(ctx, eventID, tickets[start:end])
		if err != nil {
			return imported, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		imported += n
		logger.Get().Debug("Imported batch", "from", start, "to", end, "inserted", n)
	}
	return imported, nil
}

// parseTickets читает CSV. Первая строка может быть заголовком user_id,ticket_code.
func parseTickets(r io.Reader) ([]*models.Ticket, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var tickets []*models.Ticket
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "user_id") {
			continue
		}
		if len(record) > 2 {
			return nil, fmt.Errorf("line %d: expected at most 2 columns, got %d", line, len(record))
		}

		t := &models.Ticket{UserID: strings.TrimSpace(record[0])}
		if len(record) == 2 {
			t.Code = strings.TrimSpace(record[1])
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
