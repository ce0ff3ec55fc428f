package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createProfilesTable,
		createEventsTable,
		createTicketsTable,
		createCheckInsTable,
		createAttendeesTable,
		createDistributionsTable,
		createNotificationsTable,
		createMessagesTable,
		createFeedbackTable,
		createFavoritesTable,
		createBillsTable,
		createRemindersSentTable,
		createEventsStartIndex,
		createTicketsCodeTrgmIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    email VARCHAR(255) NOT NULL,
    avatar_url TEXT,
    banner_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id BIGSERIAL PRIMARY KEY,
    slug VARCHAR(200) UNIQUE NOT NULL,
    title VARCHAR(500) NOT NULL,
    description TEXT,
    start_at TIMESTAMPTZ NOT NULL,
    end_at TIMESTAMPTZ NOT NULL,
    location VARCHAR(500) NOT NULL,
    organizer VARCHAR(200) NOT NULL,
    organizer_id UUID REFERENCES profiles(id),
    price_cents BIGINT NOT NULL DEFAULT 0,
    category VARCHAR(100) NOT NULL DEFAULT '',
    tags TEXT[] NOT NULL DEFAULT '{}',
    image_url TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (end_at >= start_at),
    CHECK (price_cents >= 0)
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id),
    event_id BIGINT NOT NULL REFERENCES events(id),
    ticket_code VARCHAR(100) UNIQUE NOT NULL,
    purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createCheckInsTable = `
CREATE TABLE IF NOT EXISTS check_ins (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    ticket_id UUID NOT NULL REFERENCES tickets(id),
    event_id BIGINT NOT NULL REFERENCES events(id),
    day_number INTEGER NOT NULL,
    checked_in_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    checked_in_by UUID REFERENCES profiles(id),

    UNIQUE(ticket_id, day_number),
    CHECK (day_number >= 1)
);`

const createAttendeesTable = `
CREATE TABLE IF NOT EXISTS attendees (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(200) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    company VARCHAR(200),
    position VARCHAR(200),
    unique_code VARCHAR(50) UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createDistributionsTable = `
CREATE TABLE IF NOT EXISTS distributions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    attendee_id UUID NOT NULL REFERENCES attendees(id),
    item_type VARCHAR(100) NOT NULL,
    event_id BIGINT NOT NULL REFERENCES events(id),
    day_number INTEGER NOT NULL,
    distributed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    distributed_by UUID REFERENCES profiles(id),

    UNIQUE(attendee_id, item_type)
);`

const createNotificationsTable = `
CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES profiles(id),
    event_id BIGINT REFERENCES events(id),
    type VARCHAR(50) NOT NULL,
    title VARCHAR(500) NOT NULL,
    message TEXT NOT NULL,
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id, created_at DESC);`

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS messages (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    event_id BIGINT REFERENCES events(id),
    sender_id UUID NOT NULL REFERENCES profiles(id),
    recipient_id UUID NOT NULL REFERENCES profiles(id),
    subject VARCHAR(500) NOT NULL,
    body TEXT NOT NULL,
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createFeedbackTable = `
CREATE TABLE IF NOT EXISTS feedback (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    event_id BIGINT NOT NULL REFERENCES events(id),
    user_id UUID NOT NULL REFERENCES profiles(id),
    rating INTEGER NOT NULL,
    comment TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(event_id, user_id),
    CHECK (rating BETWEEN 1 AND 5)
);`

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorites (
    user_id UUID NOT NULL REFERENCES profiles(id),
    event_id BIGINT NOT NULL REFERENCES events(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    PRIMARY KEY (user_id, event_id)
);`

const createBillsTable = `
CREATE TABLE IF NOT EXISTS bills (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    event_id BIGINT NOT NULL REFERENCES events(id),
    created_by UUID NOT NULL REFERENCES profiles(id),
    description VARCHAR(500) NOT NULL,
    category VARCHAR(100) NOT NULL DEFAULT 'other',
    amount_cents BIGINT NOT NULL,
    receipt_url TEXT,
    bill_date DATE NOT NULL DEFAULT CURRENT_DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (amount_cents > 0)
);`

const createRemindersSentTable = `
CREATE TABLE IF NOT EXISTS reminders_sent (
    event_id BIGINT NOT NULL REFERENCES events(id),
    user_id UUID NOT NULL REFERENCES profiles(id),
    sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    PRIMARY KEY (event_id, user_id)
);`

const createEventsStartIndex = `
CREATE INDEX IF NOT EXISTS events_start_at_idx ON events (start_at);`

const createTicketsCodeTrgmIndex = `
CREATE INDEX IF NOT EXISTS tickets_event_idx ON tickets (event_id);
CREATE INDEX IF NOT EXISTS tickets_user_idx ON tickets (user_id);`
