package clock

import (
	"sync"
	"time"
)

// DayLayout is the calendar day format used for every persisted day marker
const DayLayout = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form. The zero value means "no day".
type Day string

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay parses a YYYY-MM-DD string into a Day
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", err
	}
	return Day(s), nil
}

// IsZero reports whether the day is unset
func (d Day) IsZero() bool {
	return d == ""
}

// String implements fmt.Stringer
func (d Day) String() string {
	return string(d)
}

// Time returns midnight UTC of the day
func (d Day) Time() (time.Time, error) {
	return time.Parse(DayLayout, string(d))
}

// Before reports whether d is strictly earlier than other.
// YYYY-MM-DD strings order lexically the same way they order in time.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// After reports whether d is strictly later than other
func (d Day) After(other Day) bool {
	return string(d) > string(other)
}

// AddDays returns the day n calendar days away from d. An unparseable day is returned unchanged.
func (d Day) AddDays(n int) Day {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// Yesterday returns the day before d
func (d Day) Yesterday() Day {
	return d.AddDays(-1)
}

// Weekday returns the day of the week for d, Sunday when unparseable
func (d Day) Weekday() time.Weekday {
	t, err := d.Time()
	if err != nil {
		return time.Sunday
	}
	return t.Weekday()
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	return DayOf(a) == DayOf(b.In(a.Location()))
}

// IsOverdue reports whether due is set and strictly before today
func IsOverdue(due, today Day) bool {
	return !due.IsZero() && due.Before(today)
}

// IsWeekStart reports whether day falls on the configured first weekday
func IsWeekStart(day Day, start time.Weekday) bool {
	return day.Weekday() == start
}

// Clock is the source of "now" for every time-dependent rule
type Clock interface {
	Now() time.Time
}

// Today returns the current calendar day according to c
func Today(c Clock) Day {
	return DayOf(c.Now())
}

// System reads the wall clock, optionally pinned to a location
type System struct {
	Location *time.Location
}

// NewSystem creates a wall clock in the given location, time.Local when nil
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{Location: loc}
}

// Now implements Clock
func (s *System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed is a manually driven clock for tests and simulations
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a clock frozen at t
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// NewFixedDay creates a clock frozen at noon UTC on the given day
func NewFixedDay(day Day) *Fixed {
	t, err := day.Time()
	if err != nil {
		t = time.Time{}
	}
	return NewFixed(t.Add(12 * time.Hour))
}

// Now implements Clock
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// AdvanceDays moves the clock forward by n calendar days
func (f *Fixed) AdvanceDays(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.AddDate(0, 0, n)
}
