package recurrence

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

// Expander decides which calendar days a booking occupies. One-off bookings
// occupy exactly their anchor day; recurring bookings repeat weekly on the
// anchor's weekday, open-ended forward in time and never before the anchor.
type Expander struct {
	location *time.Location
}

// NewExpander constructs an Expander that strips dates in the provided
// location. If loc is nil, Asia/Kolkata (IST) is used.
func NewExpander(loc *time.Location) *Expander {
	if loc == nil {
		loc = ist
	}
	return &Expander{location: loc}
}

// Location returns the location used for day-boundary arithmetic.
func (e *Expander) Location() *time.Location {
	if e == nil || e.location == nil {
		return ist
	}
	return e.location
}

// AppliesOn reports whether a booking anchored at anchor occupies the target
// calendar day. Time-of-day is stripped from both sides before comparing.
func (e *Expander) AppliesOn(anchor time.Time, recurring bool, target time.Time) bool {
	anchorDay := e.StripDay(anchor)
	targetDay := e.StripDay(target)

	if !recurring {
		return anchorDay.Equal(targetDay)
	}

	if anchorDay.Weekday() != targetDay.Weekday() {
		return false
	}
	// The anchor day itself counts as the first occurrence.
	return !targetDay.Before(anchorDay)
}

// StripDay truncates a timestamp to midnight in the expander's location.
func (e *Expander) StripDay(t time.Time) time.Time {
	loc := e.Location()
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ErrNoOccurrences indicates the preview window produced no occurrence days.
var ErrNoOccurrences = errors.New("recurrence: no occurrences in window")

const maxPreviewIterations = 1000

// Upcoming returns the next count occurrence days of a weekly series, on or
// after the from reference. The anchor day itself is included when from is
// not past it.
func (e *Expander) Upcoming(anchor, from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, nil
	}

	anchorDay := e.StripDay(anchor)
	fromDay := e.StripDay(from)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   anchorDay,
		Byweekday: []rrule.Weekday{toRRuleWeekday(anchorDay.Weekday())},
	})
	if err != nil {
		return nil, err
	}

	occurrences := make([]time.Time, 0, count)
	next := rule.Iterator()
	for i := 0; i < maxPreviewIterations && len(occurrences) < count; i++ {
		occurrence, ok := next()
		if !ok {
			break
		}
		day := e.StripDay(occurrence)
		if day.Before(fromDay) {
			continue
		}
		occurrences = append(occurrences, day)
	}

	if len(occurrences) == 0 {
		return nil, ErrNoOccurrences
	}
	return occurrences, nil
}

func toRRuleWeekday(day time.Weekday) rrule.Weekday {
	switch day {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
