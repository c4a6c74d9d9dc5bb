package persistence

import (
	"context"
	"time"
)

// ClientRepository exposes directory operations for clients.
type ClientRepository interface {
	CreateClient(ctx context.Context, client Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	SearchClients(ctx context.Context, query string) ([]Client, error)
}

// BookingRepository stores call bookings. The store cannot evaluate
// day-of-week recurrence itself: ListBookingsByDate returns only
// non-recurring bookings anchored on the given day, and recurring bookings
// are fetched through ListRecurringBookings and expanded by the caller.
type BookingRepository interface {
	InsertBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	DeleteBooking(ctx context.Context, id string) error
	ListAllBookings(ctx context.Context) ([]Booking, error)
	ListBookingsByDate(ctx context.Context, day time.Time) ([]Booking, error)
	ListRecurringBookings(ctx context.Context) ([]Booking, error)
}
