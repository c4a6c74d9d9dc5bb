package persistence

import "time"

// Client represents a coached client in the directory.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     *string
	CreatedAt time.Time
}

// Booking represents a stored call booking. AnchorAt is the date of the
// first occurrence; SlotTime is the "HH:MM" grid position matched against
// the daily time grid. ClientName and ClientPhone are snapshots taken at
// booking time and are not re-synced when the client record changes.
type Booking struct {
	ID          string
	ClientID    string
	ClientName  string
	ClientPhone string
	CallType    string
	AnchorAt    time.Time
	SlotTime    string
	IsRecurring bool
	CreatedAt   time.Time
}
