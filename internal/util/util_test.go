package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIDGenerator_MonotonicUnderFrozenClock(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	gen := NewIDGenerator(clock)

	prev := gen.NewID()
	for i := 0; i < 100; i++ {
		next := gen.NewID()
		if next <= prev {
			t.Fatalf("id %s not after %s", next, prev)
		}
		prev = next
	}

	id, err := uuid.Parse(prev)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", prev, err)
	}
	if id.Version() != 7 {
		t.Errorf("expected version 7, got %d", id.Version())
	}
}

func TestIDGenerator_ClockRewind(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	gen := NewIDGenerator(clock)

	first := gen.NewID()
	clock.Advance(-time.Hour)
	if second := gen.NewID(); second <= first {
		t.Errorf("id %s not after %s after rewind", second, first)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate(" 2024-06-20 "); err != nil {
		t.Errorf("expected trimmed date to parse: %v", err)
	}
	for _, bad := range []string{"", "20.06.2024", "2024-13-01"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestDateInRange(t *testing.T) {
	tests := []struct {
		date, from, to string
		want           bool
	}{
		{"2024-06-20", "", "", true},
		{"2024-06-20", "2024-06-20", "2024-06-20", true},
		{"2024-06-19", "2024-06-20", "", false},
		{"2024-06-21", "", "2024-06-20", false},
		{"2024-06-25", "2024-06-01", "2024-06-30", true},
	}

	for _, tt := range tests {
		if got := DateInRange(tt.date, tt.from, tt.to); got != tt.want {
			t.Errorf("DateInRange(%q, %q, %q) = %v, want %v", tt.date, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRelativeDay(t *testing.T) {
	today := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		date string
		want string
	}{
		{"2024-06-15", "сегодня"},
		{"2024-06-16", "завтра"},
		{"2024-06-14", "вчера"},
		{"2024-06-20", "через 5 дн."},
		{"2024-06-12", "3 дн. назад"},
		{"not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		if got := RelativeDay(tt.date, today); got != tt.want {
			t.Errorf("RelativeDay(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
