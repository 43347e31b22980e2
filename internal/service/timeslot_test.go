package service

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatTimeSlot(t *testing.T) {
	start := time.Date(2026, 3, 10, 22, 25, 0, 0, time.UTC)
	got := FormatTimeSlot(start, start.Add(10*time.Minute))
	want := "10:25pm-10:35pm"
	if got != want {
		t.Errorf("FormatTimeSlot() = %q, want %q", got, want)
	}
}

func TestParseTimeSlot(t *testing.T) {
	day := date(2026, 3, 10)

	tests := []struct {
		name      string
		slot      string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "twelve hour form",
			slot:      "10:25pm-10:35pm",
			wantStart: time.Date(2026, 3, 10, 22, 25, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 10, 22, 35, 0, 0, time.UTC),
		},
		{
			name:      "twenty four hour form",
			slot:      "22:25-22:35",
			wantStart: time.Date(2026, 3, 10, 22, 25, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 10, 22, 35, 0, 0, time.UTC),
		},
		{
			name:      "mixed forms",
			slot:      "14:00-2:10pm",
			wantStart: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 10, 14, 10, 0, 0, time.UTC),
		},
		{
			name:      "window wraps midnight",
			slot:      "11:55pm-12:05am",
			wantStart: time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 3, 11, 0, 5, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseTimeSlot(tt.slot, day)
			if err != nil {
				t.Fatalf("ParseTimeSlot(%q) error = %v", tt.slot, err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestParseTimeSlotBadInput(t *testing.T) {
	day := date(2026, 3, 10)

	for _, slot := range []string{"", "no time limit", "10:25pm", "abc-def", "25:99-26:00"} {
		if _, _, err := ParseTimeSlot(slot, day); !errors.Is(err, ErrBadTimeSlot) {
			t.Errorf("ParseTimeSlot(%q) error = %v, want ErrBadTimeSlot", slot, err)
		}
	}
}

func TestParseSlotEnd(t *testing.T) {
	day := date(2026, 3, 10)

	end, err := ParseSlotEnd("9:00am-9:10am", day)
	if err != nil {
		t.Fatalf("ParseSlotEnd() error = %v", err)
	}
	want := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("ParseSlotEnd() = %v, want %v", end, want)
	}
}
