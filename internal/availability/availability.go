package availability

// Interval is a half-open [Start, End) span in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds an interval from a start minute and a duration.
func NewInterval(startMinutes, durationMinutes int) Interval {
	return Interval{Start: startMinutes, End: startMinutes + durationMinutes}
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count: a call ending at 11:10 is compatible with one
// starting at 11:10.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// SlotFree reports whether the candidate interval conflicts with none of the
// booked intervals. Each booked interval must carry its own call-type
// duration; the candidate's duration is never assumed for other bookings.
func SlotFree(candidate Interval, booked []Interval) bool {
	for _, other := range booked {
		if Overlaps(candidate, other) {
			return false
		}
	}
	return true
}

// Conflicts returns the indexes of booked intervals that overlap the
// candidate, in input order. Callers use this to tell the user which
// bookings block a slot.
func Conflicts(candidate Interval, booked []Interval) []int {
	var conflicting []int
	for i, other := range booked {
		if Overlaps(candidate, other) {
			conflicting = append(conflicting, i)
		}
	}
	return conflicting
}
