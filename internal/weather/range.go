package weather

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrInvalidRange is returned when a range boundary cannot be parsed.
	ErrInvalidRange = errors.New("invalid time range boundary")

	// ErrInvalidTimestamp is returned when an ingested record's primary
	// timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid observation timestamp")

	// ErrNotFound is returned when no observation matches the request.
	ErrNotFound = errors.New("no weather data found")
)

// Range is an optional inclusive time window. A nil bound removes that
// constraint.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange builds a Range from optional query-string boundaries. Empty
// strings leave the corresponding bound open; anything that is not RFC3339,
// unix seconds, or a YYYY-MM-DD date fails with ErrInvalidRange rather than
// silently filtering on a zero time.
func ParseRange(start, end string) (Range, error) {
	var r Range

	if start != "" {
		ts, err := parseTime(start)
		if err != nil {
			return Range{}, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
		}
		r.Start = &ts
	}

	if end != "" {
		ts, err := parseTime(end)
		if err != nil {
			return Range{}, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
		}
		r.End = &ts
	}

	return r, nil
}

// parseTime tries RFC3339, a bare date, or unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339, YYYY-MM-DD or unix seconds")
}

// Contains reports whether ts falls inside the window (bounds inclusive).
func (r Range) Contains(ts time.Time) bool {
	if r.Start != nil && ts.Before(*r.Start) {
		return false
	}
	if r.End != nil && ts.After(*r.End) {
		return false
	}
	return true
}
