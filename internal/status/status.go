// Package status derives the single status category of an appointment from
// its explicit flag, its scheduled start relative to now, and whether it has
// been verified.
package status

import (
	"time"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/verification"
)

// Category is the derived status of an appointment.
type Category string

const (
	Completed   Category = "completed"
	Upcoming    Category = "upcoming"
	NoShow      Category = "no-show"
	Rescheduled Category = "rescheduled"
	Cancelled   Category = "cancelled"
)

// Categories lists every category in display order.
var Categories = []Category{Completed, Upcoming, NoShow, Rescheduled, Cancelled}

// Label is the human form used in calendar titles.
func (c Category) Label() string {
	switch c {
	case Completed:
		return "Completed"
	case NoShow:
		return "No-Show"
	case Rescheduled:
		return "Rescheduled"
	case Cancelled:
		return "Cancelled"
	default:
		return "Upcoming"
	}
}

// Classify evaluates the rules in precedence order; the first that applies
// wins. An appointment missing a date or time is never in the past.
func Classify(appt records.Appointment, now time.Time, loc *time.Location, verified verification.Set) Category {
	switch {
	case appt.ExplicitStatus == records.StatusCancelled:
		return Cancelled
	case appt.ExplicitStatus == records.StatusRescheduled:
		return Rescheduled
	case verified.Has(appt.AppointmentID):
		return Completed
	case IsPast(appt, now, loc):
		return NoShow
	default:
		return Upcoming
	}
}

// IsPast reports whether the scheduled local start is strictly before now.
func IsPast(appt records.Appointment, now time.Time, loc *time.Location) bool {
	start, ok := appt.Start()
	if !ok {
		return false
	}
	return start.In(location(loc)).Before(now)
}

// Classified pairs an appointment with its derived category.
type Classified struct {
	records.Appointment
	Category Category `json:"statusCategory"`
	Verified bool     `json:"verified"`
}

// Dated reports whether the appointment can be placed in a day bucket.
func (c Classified) Dated() bool {
	return c.Date != nil
}

// ClassifyAll classifies appts in input order.
func ClassifyAll(appts []records.Appointment, now time.Time, loc *time.Location, verified verification.Set) []Classified {
	out := make([]Classified, 0, len(appts))
	for _, a := range appts {
		out = append(out, Classified{
			Appointment: a,
			Category:    Classify(a, now, loc, verified),
			Verified:    verified.Has(a.AppointmentID),
		})
	}
	return out
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
