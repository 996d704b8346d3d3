package aggregate

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

// ProviderLane is one provider's appointments for the day.
type ProviderLane struct {
	Name         string              `json:"name"`
	Appointments []status.Classified `json:"appointments"`
}

// Timeline is the live view of the current day.
type Timeline struct {
	Day       civil.Date     `json:"day"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Waiting   int            `json:"waiting"`
	Providers []ProviderLane `json:"providers"`
}

// ProviderTimeline collects today's non-cancelled appointments grouped by
// provider in first-seen order, each lane sorted by start time. Completed and
// Waiting count explicit flags whose start has already passed.
func ProviderTimeline(classified []status.Classified, today civil.Date, now time.Time, loc *time.Location) Timeline {
	out := Timeline{Day: today, Providers: make([]ProviderLane, 0)}
	lane := make(map[string]int)

	for _, c := range classified {
		if !c.Dated() || *c.Date != today || c.ExplicitStatus == records.StatusCancelled {
			continue
		}
		out.Total++
		if status.IsPast(c.Appointment, now, loc) {
			switch c.ExplicitStatus {
			case records.StatusCompleted:
				out.Completed++
			case records.StatusWaiting, records.StatusInProgress:
				out.Waiting++
			}
		}

		name := c.DoctorName
		i, ok := lane[name]
		if !ok {
			i = len(out.Providers)
			lane[name] = i
			out.Providers = append(out.Providers, ProviderLane{Name: name})
		}
		out.Providers[i].Appointments = append(out.Providers[i].Appointments, c)
	}

	for i := range out.Providers {
		appts := out.Providers[i].Appointments
		sort.SliceStable(appts, func(a, b int) bool {
			return startsBefore(appts[a].Time, appts[b].Time)
		})
	}
	return out
}

// startsBefore orders timed appointments ahead of untimed ones.
func startsBefore(a, b *civil.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
