package application

import "time"

// CallType is the closed set of coaching call kinds. Duration and weekly
// recurrence are both derived from it and never stored independently.
type CallType string

const (
	// CallTypeOnboarding is the initial 40-minute call; never recurs.
	CallTypeOnboarding CallType = "onboarding"
	// CallTypeFollowUp is the 20-minute check-in; recurs weekly.
	CallTypeFollowUp CallType = "follow-up"
)

const (
	onboardingMinutes = 40
	followUpMinutes   = 20
)

// Valid reports whether the call type is one of the known kinds.
func (c CallType) Valid() bool {
	return c == CallTypeOnboarding || c == CallTypeFollowUp
}

// DurationMinutes returns the fixed call length for the type.
func (c CallType) DurationMinutes() int {
	if c == CallTypeOnboarding {
		return onboardingMinutes
	}
	return followUpMinutes
}

// Recurs reports whether bookings of this type repeat weekly. Follow-ups
// recur, onboarding calls never do; callers cannot override this.
func (c CallType) Recurs() bool {
	return c == CallTypeFollowUp
}

// Client represents a directory entry exposed by the application services.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

// ClientInput captures caller provided client fields.
type ClientInput struct {
	Name  string
	Phone string
	Email string
}

// Booking represents a persisted call booking. ClientName and ClientPhone
// are snapshots taken when the booking was made; they intentionally go
// stale if the client record changes later.
type Booking struct {
	ID          string
	ClientID    string
	ClientName  string
	ClientPhone string
	CallType    CallType
	AnchorAt    time.Time
	SlotTime    string
	IsRecurring bool
	CreatedAt   time.Time
}

// BookParams wraps the data required to place a booking. There is no
// recurring flag: recurrence follows from the call type.
type BookParams struct {
	ClientID string
	CallType CallType
	Date     time.Time
	Slot     string
}

// DaySlot is one grid position in a day view: either free, the start of a
// booking, or blocked by a booking that started on an earlier slot.
type DaySlot struct {
	Time      string
	Display   string
	Available bool
	Booking   *Booking
}

// DaySchedule is the rendered calendar for one date.
type DaySchedule struct {
	Date  time.Time
	Slots []DaySlot
}
