package status

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var ErrInvalidDay = errors.New("status: day must be YYYY-MM-DD")

// Today is the calendar day of now as seen in loc. Every "today" comparison
// in the engine goes through here.
func Today(now time.Time, loc *time.Location) civil.Date {
	return civil.DateOf(now.In(location(loc)))
}

// ParseDay reads a caller-supplied day literally. An empty string means
// Today.
func ParseDay(s string, now time.Time, loc *time.Location) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Today(now, loc), nil
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return civil.Date{}, ErrInvalidDay
	}
	return d, nil
}
