package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

// The coach's working day is fixed: the first call can start at 10:30 and
// the last at 19:30, with a new slot every 20 minutes. The grid is the same
// for every calendar day.
const (
	DayStartMinutes = 10*60 + 30
	DayEndMinutes   = 19*60 + 30
	StepMinutes     = 20
)

// SlotCount is the number of bookable start times in a working day.
const SlotCount = (DayEndMinutes-DayStartMinutes)/StepMinutes + 1

// Slot is a bookable start time within the daily grid. It carries no
// calendar date; the same slot exists on every day.
type Slot struct {
	Time    string
	Display string
}

// Slots returns the ordered sequence of bookable start times for a working
// day, from 10:30 through 19:30 inclusive.
func Slots() []Slot {
	slots := make([]Slot, 0, SlotCount)
	for minutes := DayStartMinutes; minutes <= DayEndMinutes; minutes += StepMinutes {
		clock := FormatClock(minutes)
		slots = append(slots, Slot{Time: clock, Display: DisplayLabel(clock)})
	}
	return slots
}

// Contains reports whether the clock string names a slot on the grid.
func Contains(clock string) bool {
	minutes, err := ParseClock(clock)
	if err != nil {
		return false
	}
	if minutes < DayStartMinutes || minutes > DayEndMinutes {
		return false
	}
	return (minutes-DayStartMinutes)%StepMinutes == 0
}

// ParseClock converts an "HH:MM" clock string to minutes since midnight.
func ParseClock(clock string) (int, error) {
	hourPart, minutePart, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("timegrid: invalid clock %q", clock)
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("timegrid: invalid clock %q", clock)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || len(minutePart) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("timegrid: invalid clock %q", clock)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as a zero-padded "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DisplayLabel renders a clock string in 12-hour form, e.g. "10:30 AM" or
// "7:30 PM". Hour zero displays as 12 and the hour carries no leading zero.
func DisplayLabel(clock string) string {
	minutes, err := ParseClock(clock)
	if err != nil {
		return clock
	}
	hour := minutes / 60
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	displayHour := hour
	switch {
	case hour > 12:
		displayHour = hour - 12
	case hour == 0:
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, minutes%60, period)
}
