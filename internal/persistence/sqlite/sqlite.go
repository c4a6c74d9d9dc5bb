package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/coach-calendar/internal/persistence"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// Storage implements the persistence contracts on a SQLite database. Anchor
// days are stored as a dedicated YYYY-MM-DD column computed in the calendar
// location, so exact-day queries and the (day, slot) uniqueness backstop
// stay inside the database.
type Storage struct {
	db       *sql.DB
	location *time.Location
}

// Open connects to the SQLite database named by dsn. If loc is nil,
// Asia/Kolkata (IST) is used for day-boundary arithmetic.
func Open(dsn string, loc *time.Location) (*Storage, error) {
	if loc == nil {
		loc = ist
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Storage{db: db, location: loc}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL UNIQUE,
	email      TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id           TEXT PRIMARY KEY,
	client_id    TEXT NOT NULL,
	client_name  TEXT NOT NULL,
	client_phone TEXT NOT NULL,
	call_type    TEXT NOT NULL,
	anchor_day   TEXT NOT NULL,
	anchor_at    TEXT NOT NULL,
	slot_time    TEXT NOT NULL,
	is_recurring INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	UNIQUE (anchor_day, slot_time)
);

CREATE INDEX IF NOT EXISTS idx_bookings_anchor_day ON bookings (anchor_day);
CREATE INDEX IF NOT EXISTS idx_bookings_recurring ON bookings (is_recurring);
`

// Migrate creates the schema when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

func (s *Storage) anchorDay(t time.Time) string {
	return t.In(s.location).Format("2006-01-02")
}

// mapError folds driver errors into the persistence sentinels. Anything the
// database cannot answer is surfaced as ErrUnavailable rather than dropped.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return persistence.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(err.Error(), "constraint failed"):
		return persistence.ErrDuplicate
	default:
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", value, err)
	}
	return t, nil
}
