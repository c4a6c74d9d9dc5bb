package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/coach-calendar/internal/persistence"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// Storage is a mutex-guarded in-memory implementation of the persistence
// contracts. The composing application selects it when the durable store is
// unreachable or for transient deployments; the scheduling core behaves
// identically against it.
type Storage struct {
	mu       sync.RWMutex
	location *time.Location
	clients  map[string]persistence.Client
	bookings map[string]persistence.Booking
}

// Option configures a Storage during construction.
type Option func(*Storage)

// WithLocation sets the location used for day-boundary comparisons.
func WithLocation(loc *time.Location) Option {
	return func(s *Storage) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithSeedClients preloads the directory with the provided clients.
func WithSeedClients(clients []persistence.Client) Option {
	return func(s *Storage) {
		for _, client := range clients {
			s.clients[client.ID] = cloneClient(client)
		}
	}
}

// Open returns a new empty Storage.
func Open(opts ...Option) *Storage {
	s := &Storage{
		location: ist,
		clients:  make(map[string]persistence.Client),
		bookings: make(map[string]persistence.Booking),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases resources held by the storage. No-op for the in-memory
// implementation.
func (s *Storage) Close() error {
	return nil
}

// --- ClientRepository implementation ---

// CreateClient stores a new client, enforcing phone uniqueness.
func (s *Storage) CreateClient(ctx context.Context, client persistence.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.clients {
		if existing.Phone == client.Phone {
			return persistence.ErrDuplicate
		}
	}

	s.clients[client.ID] = cloneClient(client)
	return nil
}

// GetClient retrieves a client by ID.
func (s *Storage) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return persistence.Client{}, persistence.ErrNotFound
	}
	return cloneClient(client), nil
}

// ListClients returns all clients ordered by name.
func (s *Storage) ListClients(ctx context.Context) ([]persistence.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]persistence.Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, cloneClient(client))
	}
	sortClients(clients)
	return clients, nil
}

// SearchClients returns clients whose name or phone contains the query,
// case-insensitively, ordered by name.
func (s *Storage) SearchClients(ctx context.Context, query string) ([]persistence.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	clients := make([]persistence.Client, 0)
	for _, client := range s.clients {
		if needle == "" ||
			strings.Contains(strings.ToLower(client.Name), needle) ||
			strings.Contains(strings.ToLower(client.Phone), needle) {
			clients = append(clients, cloneClient(client))
		}
	}
	sortClients(clients)
	return clients, nil
}

// --- BookingRepository implementation ---

// InsertBooking stores a new booking. A second booking on the same anchor
// day and slot is rejected as a backstop against check-then-write races.
func (s *Storage) InsertBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	day := s.stripDay(booking.AnchorAt)
	for _, existing := range s.bookings {
		if existing.SlotTime == booking.SlotTime && s.stripDay(existing.AnchorAt).Equal(day) {
			return persistence.ErrDuplicate
		}
	}

	s.bookings[booking.ID] = booking
	return nil
}

// GetBooking retrieves a booking by ID.
func (s *Storage) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

// UpdateBooking replaces an existing booking record.
func (s *Storage) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.bookings[booking.ID] = booking
	return nil
}

// DeleteBooking removes a booking by ID.
func (s *Storage) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// ListAllBookings returns every stored booking ordered by anchor time.
func (s *Storage) ListAllBookings(ctx context.Context) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		bookings = append(bookings, booking)
	}
	sortBookings(bookings)
	return bookings, nil
}

// ListBookingsByDate returns non-recurring bookings anchored on the given
// calendar day.
func (s *Storage) ListBookingsByDate(ctx context.Context, day time.Time) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := s.stripDay(day)
	bookings := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if booking.IsRecurring {
			continue
		}
		if s.stripDay(booking.AnchorAt).Equal(target) {
			bookings = append(bookings, booking)
		}
	}
	sortBookings(bookings)
	return bookings, nil
}

// ListRecurringBookings returns every booking flagged recurring.
func (s *Storage) ListRecurringBookings(ctx context.Context) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if booking.IsRecurring {
			bookings = append(bookings, booking)
		}
	}
	sortBookings(bookings)
	return bookings, nil
}

func (s *Storage) stripDay(t time.Time) time.Time {
	y, m, d := t.In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

func cloneClient(client persistence.Client) persistence.Client {
	out := client
	if client.Email != nil {
		email := *client.Email
		out.Email = &email
	}
	return out
}

func sortClients(clients []persistence.Client) {
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].Name == clients[j].Name {
			return clients[i].ID < clients[j].ID
		}
		return clients[i].Name < clients[j].Name
	})
}

func sortBookings(bookings []persistence.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].AnchorAt.Equal(bookings[j].AnchorAt) {
			if bookings[i].SlotTime == bookings[j].SlotTime {
				return bookings[i].ID < bookings[j].ID
			}
			return bookings[i].SlotTime < bookings[j].SlotTime
		}
		return bookings[i].AnchorAt.Before(bookings[j].AnchorAt)
	})
}
