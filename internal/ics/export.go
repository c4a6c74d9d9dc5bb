// Package ics renders a day's effective bookings as an iCalendar document
// that external calendar apps can import.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/coach-calendar/internal/application"
	"github.com/example/coach-calendar/internal/timegrid"
)

const productID = "-//coach-calendar//day-schedule//EN"

// BuildDayCalendar renders the bookings effective on one date as a
// VCALENDAR with a VEVENT per booking. Event times place each booking's
// slot on the target date in the given location, so a recurring booking's
// event lands on the requested day rather than on its anchor day.
func BuildDayCalendar(date time.Time, bookings []application.Booking, loc *time.Location) (*ical.Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	y, m, d := date.In(loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	for _, booking := range bookings {
		slotMinutes, err := timegrid.ParseClock(booking.SlotTime)
		if err != nil {
			return nil, fmt.Errorf("ics: booking %s has invalid slot %q: %w", booking.ID, booking.SlotTime, err)
		}
		start := midnight.Add(time.Duration(slotMinutes) * time.Minute)
		end := start.Add(time.Duration(booking.CallType.DurationMinutes()) * time.Minute)

		event := cal.AddEvent(booking.ID + "@coach-calendar")
		event.SetDtStampTime(booking.CreatedAt.UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s (%s)", booking.ClientName, booking.CallType))
		event.SetDescription(fmt.Sprintf("Phone: %s", booking.ClientPhone))
	}

	return cal, nil
}
