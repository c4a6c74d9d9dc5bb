package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/coach-calendar/internal/persistence"
)

const bookingColumns = `id, client_id, client_name, client_phone, call_type, anchor_at, slot_time, is_recurring, created_at`

// InsertBooking inserts a new booking row. The (anchor_day, slot_time)
// unique index rejects a concurrent write into the same slot.
func (s *Storage) InsertBooking(ctx context.Context, booking persistence.Booking) error {
	query := `
		INSERT INTO bookings (id, client_id, client_name, client_phone, call_type, anchor_day, anchor_at, slot_time, is_recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.ClientName,
		booking.ClientPhone,
		booking.CallType,
		s.anchorDay(booking.AnchorAt),
		formatTime(booking.AnchorAt),
		booking.SlotTime,
		booking.IsRecurring,
		formatTime(booking.CreatedAt),
	)
	return mapError(err)
}

// GetBooking retrieves a booking by ID.
func (s *Storage) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// UpdateBooking replaces the mutable fields of an existing booking.
func (s *Storage) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	query := `
		UPDATE bookings
		SET client_id = ?, client_name = ?, client_phone = ?, call_type = ?,
		    anchor_day = ?, anchor_at = ?, slot_time = ?, is_recurring = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		booking.ClientID,
		booking.ClientName,
		booking.ClientPhone,
		booking.CallType,
		s.anchorDay(booking.AnchorAt),
		formatTime(booking.AnchorAt),
		booking.SlotTime,
		booking.IsRecurring,
		booking.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking by ID.
func (s *Storage) DeleteBooking(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListAllBookings returns every booking ordered by anchor time.
func (s *Storage) ListAllBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY anchor_at, slot_time, id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListBookingsByDate returns non-recurring bookings anchored on the given
// calendar day.
func (s *Storage) ListBookingsByDate(ctx context.Context, day time.Time) ([]persistence.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE anchor_day = ? AND is_recurring = 0
		ORDER BY slot_time, id
	`, s.anchorDay(day))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListRecurringBookings returns every booking flagged recurring.
func (s *Storage) ListRecurringBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE is_recurring = 1
		ORDER BY anchor_at, slot_time, id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking   persistence.Booking
		anchorAt  string
		createdAt string
	)
	if err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.CallType,
		&anchorAt,
		&booking.SlotTime,
		&booking.IsRecurring,
		&createdAt,
	); err != nil {
		return persistence.Booking{}, mapError(err)
	}

	anchor, err := parseTime(anchorAt)
	if err != nil {
		return persistence.Booking{}, err
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return persistence.Booking{}, err
	}
	booking.AnchorAt = anchor
	booking.CreatedAt = created
	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]persistence.Booking, error) {
	bookings := make([]persistence.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}
