package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/coach-calendar/internal/persistence"
	"github.com/example/coach-calendar/internal/recurrence"
)

var testIST = time.FixedZone("IST", 5*60*60+30*60)

type bookingRepoFake struct {
	bookings  map[string]Booking
	expander  *recurrence.Expander
	insertErr error
	listErr   error
}

func newBookingRepoFake() *bookingRepoFake {
	return &bookingRepoFake{
		bookings: make(map[string]Booking),
		expander: recurrence.NewExpander(testIST),
	}
}

func (f *bookingRepoFake) InsertBooking(ctx context.Context, booking Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *bookingRepoFake) GetBooking(ctx context.Context, id string) (Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

func (f *bookingRepoFake) DeleteBooking(ctx context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *bookingRepoFake) ListAllBookings(ctx context.Context) ([]Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Booking, 0, len(f.bookings))
	for _, booking := range f.bookings {
		out = append(out, booking)
	}
	return out, nil
}

func (f *bookingRepoFake) ListBookingsByDate(ctx context.Context, day time.Time) ([]Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Booking, 0)
	for _, booking := range f.bookings {
		if booking.IsRecurring {
			continue
		}
		if f.expander.StripDay(booking.AnchorAt).Equal(f.expander.StripDay(day)) {
			out = append(out, booking)
		}
	}
	return out, nil
}

func (f *bookingRepoFake) ListRecurringBookings(ctx context.Context) ([]Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Booking, 0)
	for _, booking := range f.bookings {
		if booking.IsRecurring {
			out = append(out, booking)
		}
	}
	return out, nil
}

type clientDirectoryFake struct {
	clients map[string]Client
	err     error
}

func (f *clientDirectoryFake) GetClient(ctx context.Context, id string) (Client, error) {
	if f.err != nil {
		return Client{}, f.err
	}
	client, ok := f.clients[id]
	if !ok {
		return Client{}, persistence.ErrNotFound
	}
	return client, nil
}

func newTestService(repo *bookingRepoFake) *BookingService {
	counter := 0
	idGenerator := func() string {
		counter++
		return "booking-" + string(rune('0'+counter))
	}
	clients := &clientDirectoryFake{clients: map[string]Client{
		"client-a": {ID: "client-a", Name: "Priya Patel", Phone: "+91-9876543213"},
		"client-b": {ID: "client-b", Name: "Amit Singh", Phone: "+91-9876543214"},
	}}
	now := func() time.Time { return time.Date(2024, time.June, 1, 9, 0, 0, 0, testIST) }
	return NewBookingService(repo, clients, recurrence.NewExpander(testIST), idGenerator, now)
}

func wednesday() time.Time {
	return time.Date(2024, time.June, 5, 0, 0, 0, 0, testIST)
}

func TestBookDerivesRecurrenceFromCallType(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	onboarding, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"})
	if err != nil {
		t.Fatalf("Book onboarding: %v", err)
	}
	if onboarding.IsRecurring {
		t.Error("onboarding bookings must never recur")
	}

	followUp, err := service.Book(ctx, BookParams{ClientID: "client-b", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "13:00"})
	if err != nil {
		t.Fatalf("Book follow-up: %v", err)
	}
	if !followUp.IsRecurring {
		t.Error("follow-up bookings must recur weekly")
	}
	if followUp.ClientName != "Amit Singh" || followUp.ClientPhone != "+91-9876543214" {
		t.Errorf("client snapshot not taken: %+v", followUp)
	}
}

func TestBookConflictBoundaries(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	if _, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"}); err != nil {
		t.Fatalf("Book onboarding: %v", err)
	}

	// The onboarding occupies 10:30-11:10; a follow-up at 10:50 overlaps.
	_, err := service.Book(ctx, BookParams{ClientID: "client-b", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "10:50"})
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("10:50 follow-up: got %v, want ErrSlotConflict", err)
	}

	// 11:10 touches the boundary; half-open intervals do not conflict.
	if _, err := service.Book(ctx, BookParams{ClientID: "client-b", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "11:10"}); err != nil {
		t.Errorf("11:10 follow-up should succeed: %v", err)
	}
}

func TestBookValidation(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	_, err := service.Book(ctx, BookParams{ClientID: "", CallType: "consult", Date: time.Time{}, Slot: "half past ten"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"client_id", "call_type", "date", "slot"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Errorf("missing field error for %s: %v", field, vErr.FieldErrors)
		}
	}
}

func TestBookUnknownClient(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	_, err := service.Book(ctx, BookParams{ClientID: "ghost", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.FieldErrors["client_id"] == "" {
		t.Errorf("expected client_id error, got %v", vErr.FieldErrors)
	}
}

func TestBookStoreBackstopMapsToConflict(t *testing.T) {
	ctx := context.Background()
	repo := newBookingRepoFake()
	repo.insertErr = persistence.ErrDuplicate
	service := newTestService(repo)

	_, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "10:30"})
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("duplicate insert: got %v, want ErrSlotConflict", err)
	}
}

func TestEffectiveBookingsExpandsRecurrence(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	booked, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "13:00"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	nextWednesday := wednesday().AddDate(0, 0, 7)
	effective, err := service.EffectiveBookings(ctx, nextWednesday)
	if err != nil {
		t.Fatalf("EffectiveBookings: %v", err)
	}
	if len(effective) != 1 || effective[0].ID != booked.ID {
		t.Errorf("next wednesday should include the series: %+v", effective)
	}

	for _, day := range []time.Time{
		wednesday().AddDate(0, 0, -1), // Tuesday before anchor
		wednesday().AddDate(0, 0, 6),  // following Tuesday
		wednesday().AddDate(0, 0, -7), // Wednesday before anchor
	} {
		effective, err := service.EffectiveBookings(ctx, day)
		if err != nil {
			t.Fatalf("EffectiveBookings(%s): %v", day, err)
		}
		if len(effective) != 0 {
			t.Errorf("%s should have no effective bookings: %+v", day, effective)
		}
	}
}

func TestEffectiveBookingsOrderedBySlot(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	for _, slot := range []string{"15:00", "10:30", "13:00"} {
		if _, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: slot}); err != nil {
			t.Fatalf("Book(%s): %v", slot, err)
		}
	}

	effective, err := service.EffectiveBookings(ctx, wednesday())
	if err != nil {
		t.Fatalf("EffectiveBookings: %v", err)
	}
	want := []string{"10:30", "13:00", "15:00"}
	for i, slot := range want {
		if effective[i].SlotTime != slot {
			t.Errorf("effective[%d].SlotTime = %s, want %s", i, effective[i].SlotTime, slot)
		}
	}
}

func TestBookThenCancelRestoresEffectiveSet(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	booking, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "13:00"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if err := service.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	for _, day := range []time.Time{wednesday(), wednesday().AddDate(0, 0, 7)} {
		effective, err := service.EffectiveBookings(ctx, day)
		if err != nil {
			t.Fatalf("EffectiveBookings(%s): %v", day, err)
		}
		if len(effective) != 0 {
			t.Errorf("%s: effective set not restored: %+v", day, effective)
		}
	}
}

func TestCancelMissingBooking(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	if err := service.Cancel(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cancel(missing): got %v, want ErrNotFound", err)
	}
}

func TestDayView(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	booking, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	view, err := service.DayView(ctx, wednesday())
	if err != nil {
		t.Fatalf("DayView: %v", err)
	}
	if len(view.Slots) != 28 {
		t.Fatalf("expected 28 slots, got %d", len(view.Slots))
	}

	bySlot := make(map[string]DaySlot, len(view.Slots))
	for _, slot := range view.Slots {
		bySlot[slot.Time] = slot
	}

	// The 40-minute onboarding blocks both 10:30 and 10:50.
	for _, blocked := range []string{"10:30", "10:50"} {
		slot := bySlot[blocked]
		if slot.Available {
			t.Errorf("slot %s should be blocked", blocked)
		}
		if slot.Booking == nil || slot.Booking.ID != booking.ID {
			t.Errorf("slot %s should carry the blocking booking", blocked)
		}
	}
	if slot := bySlot["11:10"]; !slot.Available || slot.Booking != nil {
		t.Errorf("slot 11:10 should be free: %+v", slot)
	}
}

func TestUpcomingOccurrences(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newBookingRepoFake())

	oneOff, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	series, err := service.Book(ctx, BookParams{ClientID: "client-b", CallType: CallTypeFollowUp, Date: wednesday(), Slot: "13:00"})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	days, err := service.UpcomingOccurrences(ctx, oneOff.ID, 5)
	if err != nil {
		t.Fatalf("UpcomingOccurrences(one-off): %v", err)
	}
	if len(days) != 1 || !days[0].Equal(wednesday()) {
		t.Errorf("one-off occurrences = %v, want just the anchor day", days)
	}

	days, err = service.UpcomingOccurrences(ctx, series.ID, 3)
	if err != nil {
		t.Fatalf("UpcomingOccurrences(series): %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(days))
	}
	for i, day := range days {
		want := wednesday().AddDate(0, 0, 7*i)
		if !day.Equal(want) {
			t.Errorf("occurrence %d = %s, want %s", i, day, want)
		}
	}

	if _, err := service.UpcomingOccurrences(ctx, "missing", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing booking: got %v, want ErrNotFound", err)
	}
}

func TestStoreFailuresSurfaceAsUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := newBookingRepoFake()
	repo.listErr = errors.New("connection refused")
	service := newTestService(repo)

	if _, err := service.EffectiveBookings(ctx, wednesday()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("EffectiveBookings: got %v, want ErrStoreUnavailable", err)
	}
	if _, err := service.Book(ctx, BookParams{ClientID: "client-a", CallType: CallTypeOnboarding, Date: wednesday(), Slot: "10:30"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Book: got %v, want ErrStoreUnavailable", err)
	}
}
