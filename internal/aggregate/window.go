// Package aggregate builds the dashboard projections over classified
// appointments. Every function here is pure and recomputes from its inputs.
package aggregate

import (
	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/status"
)

// Window is an inclusive date range. A nil bound is open.
type Window struct {
	Start *civil.Date `json:"start,omitempty"`
	End   *civil.Date `json:"end,omitempty"`
}

// Day returns the window covering a single day.
func Day(d civil.Date) Window {
	return Window{Start: &d, End: &d}
}

// Bounded reports whether either side is set.
func (w Window) Bounded() bool {
	return w.Start != nil || w.End != nil
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d civil.Date) bool {
	if w.Start != nil && d.Before(*w.Start) {
		return false
	}
	if w.End != nil && d.After(*w.End) {
		return false
	}
	return true
}

// admits decides window membership for an appointment. Undated appointments
// only pass an unbounded window.
func (w Window) admits(c status.Classified) bool {
	if !c.Dated() {
		return !w.Bounded()
	}
	return w.Contains(*c.Date)
}
