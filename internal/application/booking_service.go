package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/coach-calendar/internal/availability"
	"github.com/example/coach-calendar/internal/persistence"
	"github.com/example/coach-calendar/internal/recurrence"
	"github.com/example/coach-calendar/internal/timegrid"
)

// BookingRepository captures the persistence interactions needed by the
// booking service.
type BookingRepository interface {
	InsertBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListAllBookings(ctx context.Context) ([]Booking, error)
	ListBookingsByDate(ctx context.Context, day time.Time) ([]Booking, error)
	ListRecurringBookings(ctx context.Context) ([]Booking, error)
}

// ClientDirectory exposes client lookup operations.
type ClientDirectory interface {
	GetClient(ctx context.Context, id string) (Client, error)
}

// BookingService orchestrates slot validation, recurrence expansion and
// conflict rejection for booking operations.
type BookingService struct {
	bookings    BookingRepository
	clients     ClientDirectory
	expander    *recurrence.Expander
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, clients ClientDirectory, expander *recurrence.Expander, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, clients, expander, idGenerator, now, nil)
}

// NewBookingServiceWithLogger wires dependencies for booking operations with
// an explicit base logger.
func NewBookingServiceWithLogger(bookings BookingRepository, clients ClientDirectory, expander *recurrence.Expander, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if expander == nil {
		expander = recurrence.NewExpander(nil)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		clients:     clients,
		expander:    expander,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// EffectiveBookings resolves the concrete set of bookings occupying slots on
// the given date: non-recurring bookings anchored on that day plus recurring
// bookings whose weekly series covers it. Every availability decision is
// made against this set, never against raw stored bookings.
func (s *BookingService) EffectiveBookings(ctx context.Context, date time.Time) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	direct, err := s.bookings.ListBookingsByDate(ctx, date)
	if err != nil {
		return nil, mapStoreError(err)
	}

	recurring, err := s.bookings.ListRecurringBookings(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	effective := make([]Booking, 0, len(direct)+len(recurring))
	effective = append(effective, direct...)
	for _, booking := range recurring {
		if s.expander.AppliesOn(booking.AnchorAt, true, date) {
			effective = append(effective, booking)
		}
	}

	sort.Slice(effective, func(i, j int) bool {
		if effective[i].SlotTime == effective[j].SlotTime {
			return effective[i].ID < effective[j].ID
		}
		return effective[i].SlotTime < effective[j].SlotTime
	})

	return effective, nil
}

// Book validates the request, derives duration and recurrence from the call
// type, and persists the booking unless its interval overlaps an existing
// effective booking on the target date. On conflict nothing is written.
func (s *BookingService) Book(ctx context.Context, params BookParams) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "booking", "book",
		"client_id", params.ClientID, "call_type", string(params.CallType), "slot", params.Slot)

	vErr := &ValidationError{}
	if params.ClientID == "" {
		vErr.add("client_id", "client is required")
	}
	if !params.CallType.Valid() {
		vErr.add("call_type", "call type must be onboarding or follow-up")
	}
	if params.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	slotMinutes, slotErr := timegrid.ParseClock(params.Slot)
	if slotErr != nil {
		vErr.add("slot", "slot must be an HH:MM clock time")
	}
	if vErr.HasErrors() {
		return Booking{}, vErr
	}

	client, err := s.lookupClient(ctx, params.ClientID)
	if err != nil {
		return Booking{}, err
	}

	effective, err := s.EffectiveBookings(ctx, params.Date)
	if err != nil {
		return Booking{}, err
	}

	candidate := availability.NewInterval(slotMinutes, params.CallType.DurationMinutes())
	if !availability.SlotFree(candidate, bookedIntervals(effective)) {
		logger.InfoContext(ctx, "booking rejected", "error_kind", ErrorKind(ErrSlotConflict))
		return Booking{}, ErrSlotConflict
	}

	createdAt := s.now()
	booking := Booking{
		ID:          s.idGenerator(),
		ClientID:    client.ID,
		ClientName:  client.Name,
		ClientPhone: client.Phone,
		CallType:    params.CallType,
		AnchorAt:    s.expander.StripDay(params.Date).Add(time.Duration(slotMinutes) * time.Minute),
		SlotTime:    params.Slot,
		IsRecurring: params.CallType.Recurs(),
		CreatedAt:   createdAt,
	}

	if err := s.bookings.InsertBooking(ctx, booking); err != nil {
		// The store's (day, slot) uniqueness backstop closes the
		// check-then-write gap; report it as an ordinary conflict.
		if errors.Is(err, persistence.ErrDuplicate) {
			return Booking{}, ErrSlotConflict
		}
		return Booking{}, mapStoreError(err)
	}

	logger.InfoContext(ctx, "booking created", "booking_id", booking.ID, "recurring", booking.IsRecurring)
	return booking, nil
}

// Cancel removes a booking unconditionally. Removing a recurring booking
// removes the entire series, since one record backs the whole series.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		return mapStoreError(err)
	}

	serviceLogger(ctx, s.logger, "booking", "cancel", "booking_id", bookingID).
		InfoContext(ctx, "booking cancelled")
	return nil
}

// DayView renders the full daily grid for a date, annotating each slot with
// the booking occupying it. A 40-minute onboarding call blocks both grid
// slots it covers.
func (s *BookingService) DayView(ctx context.Context, date time.Time) (DaySchedule, error) {
	effective, err := s.EffectiveBookings(ctx, date)
	if err != nil {
		return DaySchedule{}, err
	}

	booked := bookedIntervals(effective)
	slots := make([]DaySlot, 0, timegrid.SlotCount)
	for _, slot := range timegrid.Slots() {
		start, _ := timegrid.ParseClock(slot.Time)
		window := availability.NewInterval(start, timegrid.StepMinutes)

		daySlot := DaySlot{Time: slot.Time, Display: slot.Display, Available: true}
		for i, interval := range booked {
			if availability.Overlaps(window, interval) {
				booking := effective[i]
				daySlot.Available = false
				daySlot.Booking = &booking
				break
			}
		}
		slots = append(slots, daySlot)
	}

	return DaySchedule{Date: s.expander.StripDay(date), Slots: slots}, nil
}

// UpcomingOccurrences previews the next count dates a booking applies to.
// One-off bookings yield just their anchor day.
func (s *BookingService) UpcomingOccurrences(ctx context.Context, bookingID string, count int) ([]time.Time, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if !booking.IsRecurring {
		return []time.Time{s.expander.StripDay(booking.AnchorAt)}, nil
	}

	occurrences, err := s.expander.Upcoming(booking.AnchorAt, s.now(), count)
	if err != nil && !errors.Is(err, recurrence.ErrNoOccurrences) {
		return nil, err
	}
	return occurrences, nil
}

func (s *BookingService) lookupClient(ctx context.Context, id string) (Client, error) {
	if s.clients == nil {
		return Client{ID: id}, nil
	}
	client, err := s.clients.GetClient(ctx, id)
	if err != nil {
		if isNotFoundError(err) {
			vErr := &ValidationError{}
			vErr.add("client_id", "client does not exist")
			return Client{}, vErr
		}
		return Client{}, mapStoreError(err)
	}
	return client, nil
}

func bookedIntervals(bookings []Booking) []availability.Interval {
	intervals := make([]availability.Interval, 0, len(bookings))
	for _, booking := range bookings {
		start, err := timegrid.ParseClock(booking.SlotTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, availability.NewInterval(start, booking.CallType.DurationMinutes()))
	}
	return intervals
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
