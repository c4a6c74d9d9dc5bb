package timegrid

import "testing"

func TestSlotsShape(t *testing.T) {
	slots := Slots()

	if len(slots) != 28 {
		t.Fatalf("expected 28 slots, got %d", len(slots))
	}
	if slots[0].Time != "10:30" || slots[0].Display != "10:30 AM" {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	last := slots[len(slots)-1]
	if last.Time != "19:30" || last.Display != "7:30 PM" {
		t.Errorf("unexpected last slot: %+v", last)
	}

	for i := 1; i < len(slots); i++ {
		prev, _ := ParseClock(slots[i-1].Time)
		curr, _ := ParseClock(slots[i].Time)
		if curr-prev != StepMinutes {
			t.Errorf("slot %d: gap %d minutes between %s and %s", i, curr-prev, slots[i-1].Time, slots[i].Time)
		}
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		clock string
		want  bool
	}{
		{"10:30", true},
		{"10:50", true},
		{"19:30", true},
		{"10:10", false}, // before the working day
		{"19:50", false}, // past the last slot
		{"11:00", false}, // off the 20-minute step
		{"banana", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Contains(tc.clock); got != tc.want {
			t.Errorf("Contains(%q) = %v, want %v", tc.clock, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{clock: "00:00", minutes: 0},
		{clock: "10:30", minutes: 630},
		{clock: "9:30", minutes: 570},
		{clock: "23:59", minutes: 1439},
		{clock: "24:00", wantErr: true},
		{clock: "12:60", wantErr: true},
		{clock: "12:5", wantErr: true},
		{clock: "1230", wantErr: true},
		{clock: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.clock)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.clock)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.clock, err)
			continue
		}
		if got != tc.minutes {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.clock, got, tc.minutes)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	cases := map[string]string{
		"00:15": "12:15 AM",
		"09:10": "9:10 AM",
		"12:00": "12:00 PM",
		"13:10": "1:10 PM",
		"19:30": "7:30 PM",
	}
	for clock, want := range cases {
		if got := DisplayLabel(clock); got != want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", clock, got, want)
		}
	}
}
