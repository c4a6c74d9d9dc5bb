package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/coach-calendar/internal/application"
	"github.com/example/coach-calendar/internal/persistence"
)

var (
	clientCounter  uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so weekday arithmetic in tests stays readable.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Client fixtures ---------------------------

// ClientFixture represents a deterministic client record that can be
// materialised for application or persistence tests.
type ClientFixture struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// ClientOption configures the generated client fixture.
type ClientOption func(*ClientFixture)

// NewClientFixture returns a deterministic client fixture with optional overrides.
func NewClientFixture(opts ...ClientOption) ClientFixture {
	idx := atomic.AddUint64(&clientCounter, 1)
	id := fmt.Sprintf("client-%03d", idx)
	fixture := ClientFixture{
		ID:        id,
		Name:      fmt.Sprintf("Client %03d", idx),
		Phone:     fmt.Sprintf("+91-98765%05d", idx),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithClientID overrides the generated client ID.
func WithClientID(id string) ClientOption {
	return func(f *ClientFixture) {
		f.ID = id
	}
}

// WithClientName overrides the generated name.
func WithClientName(name string) ClientOption {
	return func(f *ClientFixture) {
		f.Name = name
	}
}

// WithClientPhone overrides the generated phone number.
func WithClientPhone(phone string) ClientOption {
	return func(f *ClientFixture) {
		f.Phone = phone
	}
}

// WithClientEmail sets an email address on the fixture.
func WithClientEmail(email string) ClientOption {
	return func(f *ClientFixture) {
		f.Email = email
	}
}

// WithClientCreatedAt sets the created timestamp on the fixture.
func WithClientCreatedAt(t time.Time) ClientOption {
	return func(f *ClientFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.Client value.
func (f ClientFixture) Application() application.Client {
	return application.Client{
		ID:        f.ID,
		Name:      f.Name,
		Phone:     f.Phone,
		Email:     f.Email,
		CreatedAt: f.CreatedAt,
	}
}

// Input returns the fixture as an application.ClientInput.
func (f ClientFixture) Input() application.ClientInput {
	return application.ClientInput{
		Name:  f.Name,
		Phone: f.Phone,
		Email: f.Email,
	}
}

// Persistence returns the fixture as a persistence.Client value.
func (f ClientFixture) Persistence() persistence.Client {
	var email *string
	if f.Email != "" {
		value := f.Email
		email = &value
	}
	return persistence.Client{
		ID:        f.ID,
		Name:      f.Name,
		Phone:     f.Phone,
		Email:     email,
		CreatedAt: f.CreatedAt,
	}
}

// ---------------------------- Booking fixtures ---------------------------

// BookingFixture represents a deterministic booking record. Recurrence and
// duration follow from the call type, matching the application rules.
type BookingFixture struct {
	ID          string
	ClientID    string
	ClientName  string
	ClientPhone string
	CallType    application.CallType
	AnchorAt    time.Time
	SlotTime    string
	CreatedAt   time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture with optional
// overrides. The default is a follow-up call anchored one day after the
// reference time.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	id := fmt.Sprintf("booking-%03d", idx)
	clientID := fmt.Sprintf("client-%03d", idx)
	anchorDay := referenceTime.AddDate(0, 0, 1)
	fixture := BookingFixture{
		ID:          id,
		ClientID:    clientID,
		ClientName:  fmt.Sprintf("Client %03d", idx),
		ClientPhone: fmt.Sprintf("+91-98765%05d", idx),
		CallType:    application.CallTypeFollowUp,
		AnchorAt:    time.Date(anchorDay.Year(), anchorDay.Month(), anchorDay.Day(), 10, 30, 0, 0, anchorDay.Location()),
		SlotTime:    "10:30",
		CreatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingClient sets the client snapshot fields from a client fixture.
func WithBookingClient(client ClientFixture) BookingOption {
	return func(f *BookingFixture) {
		f.ClientID = client.ID
		f.ClientName = client.Name
		f.ClientPhone = client.Phone
	}
}

// WithBookingCallType sets the call type; recurrence follows from it.
func WithBookingCallType(callType application.CallType) BookingOption {
	return func(f *BookingFixture) {
		f.CallType = callType
	}
}

// WithBookingSlot places the booking on the given day at the given grid slot.
func WithBookingSlot(day time.Time, slot string) BookingOption {
	return func(f *BookingFixture) {
		f.SlotTime = slot
		f.AnchorAt = day
		if minutes, err := parseSlotMinutes(slot); err == nil {
			f.AnchorAt = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
				Add(time.Duration(minutes) * time.Minute)
		}
	}
}

// WithBookingCreatedAt sets the created timestamp on the fixture.
func WithBookingCreatedAt(t time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.CreatedAt = t
	}
}

// Application returns the fixture as an application.Booking value.
func (f BookingFixture) Application() application.Booking {
	return application.Booking{
		ID:          f.ID,
		ClientID:    f.ClientID,
		ClientName:  f.ClientName,
		ClientPhone: f.ClientPhone,
		CallType:    f.CallType,
		AnchorAt:    f.AnchorAt,
		SlotTime:    f.SlotTime,
		IsRecurring: f.CallType.Recurs(),
		CreatedAt:   f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:          f.ID,
		ClientID:    f.ClientID,
		ClientName:  f.ClientName,
		ClientPhone: f.ClientPhone,
		CallType:    string(f.CallType),
		AnchorAt:    f.AnchorAt,
		SlotTime:    f.SlotTime,
		IsRecurring: f.CallType.Recurs(),
		CreatedAt:   f.CreatedAt,
	}
}

func parseSlotMinutes(slot string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(slot, "%d:%d", &hour, &minute); err != nil {
		return 0, err
	}
	return hour*60 + minute, nil
}
