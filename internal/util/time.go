package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// DateFormat is the calendar date format used by schedules and shifts.
	DateFormat = "2006-01-02"

	// DateTimeFormat is the display format for journal timestamps.
	DateTimeFormat = "2006-01-02 15:04:05"

	// ISO8601Format is the RFC3339 format used in storage and the API.
	ISO8601Format = time.RFC3339
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a manual clock fixed at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// ParseDate parses a calendar date in DateFormat.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// DateInRange reports whether date lies within [from, to]. Empty bounds are open.
// Dates in DateFormat compare correctly as strings.
func DateInRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// RelativeDay describes date relative to today ("сегодня", "завтра", "через N дн.").
func RelativeDay(date string, today time.Time) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(t.Sub(base).Hours() / 24)
	switch {
	case days == 0:
		return "сегодня"
	case days == 1:
		return "завтра"
	case days == -1:
		return "вчера"
	case days > 1:
		return fmt.Sprintf("через %d дн.", days)
	default:
		return fmt.Sprintf("%d дн. назад", -days)
	}
}
