package entry

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEntry is returned when a record is missing required content.
var ErrInvalidEntry = errors.New("invalid entry")

// Draft is a time entry that has not been persisted yet.
// It has no identifier; storage assigns one on insert.
type Draft struct {
	Seconds int64
	Date    time.Time
}

// Entry is a persisted time entry.
// ID is assigned by the store and is never reused.
type Entry struct {
	ID      int64
	Seconds int64
	Date    time.Time
}

// Validate reports whether the draft can be written.
func (d Draft) Validate() error {
	if d.Seconds < 0 {
		return fmt.Errorf("%w: seconds must not be negative, got %d", ErrInvalidEntry, d.Seconds)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	return nil
}

// Draft returns the record content without the identifier.
func (e Entry) Draft() Draft {
	return Draft{Seconds: e.Seconds, Date: e.Date}
}

// Validate reports whether the entry can be written back to the store.
func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("%w: id %d was not assigned by the store", ErrInvalidEntry, e.ID)
	}
	return e.Draft().Validate()
}

// Range is an inclusive date range.
// A zero From or To leaves that side open.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Validate rejects ranges whose end precedes their start.
func (r Range) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return fmt.Errorf("invalid range: %s is before %s", r.To.Format(time.RFC3339), r.From.Format(time.RFC3339))
	}
	return nil
}

// Day returns the range covering the calendar day of t in t's location.
func Day(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Range{From: start, To: start.AddDate(0, 0, 1).Add(-time.Millisecond)}
}

// FormatSeconds renders a duration as "1h 05m 07s", dropping leading zero units.
func FormatSeconds(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

const dateOnly = "2006-01-02"

// ParseDate accepts RFC 3339 timestamps or bare dates (interpreted as UTC midnight).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// ParseRange builds a Range from optional textual bounds. A bare date as
// the upper bound covers that whole day.
func ParseRange(from, to string) (Range, error) {
	var r Range
	if from != "" {
		t, err := ParseDate(from)
		if err != nil {
			return Range{}, err
		}
		r.From = t
	}
	if to != "" {
		t, err := ParseDate(to)
		if err != nil {
			return Range{}, err
		}
		if _, err := time.Parse(dateOnly, to); err == nil {
			t = Day(t).To
		}
		r.To = t
	}
	return r, r.Validate()
}
