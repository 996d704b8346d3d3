package aggregate

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
	"github.com/wolfman30/clinic-console/internal/verification"
)

// DayLoad is one weekday bucket. Total includes cancelled appointments; the
// verified split covers only the rest.
type DayLoad struct {
	Weekday     time.Weekday `json:"weekday"`
	Date        civil.Date   `json:"date"`
	Total       int          `json:"total"`
	Verified    int          `json:"verified"`
	NotVerified int          `json:"notVerified"`
}

// Workload is a provider's current calendar week, indexed by time.Weekday.
type Workload struct {
	WeekStart civil.Date `json:"weekStart"`
	Days      [7]DayLoad `json:"days"`
	Degraded  bool       `json:"degraded"`
}

// WeekStart is the Sunday on or before the current day in loc.
func WeekStart(now time.Time, loc *time.Location) civil.Date {
	today := status.Today(now, loc)
	return today.AddDays(-int(weekday(today)))
}

// WeeklyWorkload buckets appts into the current Sunday-to-Saturday week and
// verifies all live appointments of the week in a single gateway batch.
func WeeklyWorkload(ctx context.Context, appts []records.Appointment, now time.Time, loc *time.Location, gw verification.Gateway) Workload {
	start := WeekStart(now, loc)
	end := start.AddDays(7)

	var out Workload
	out.WeekStart = start
	for i := range out.Days {
		d := start.AddDays(i)
		out.Days[i] = DayLoad{Weekday: weekday(d), Date: d}
	}

	type live struct {
		id  string
		day time.Weekday
	}
	var active []live
	var ids []string
	for _, a := range appts {
		if a.Date == nil || a.Date.Before(start) || !a.Date.Before(end) {
			continue
		}
		day := weekday(*a.Date)
		out.Days[day].Total++
		if a.ExplicitStatus == records.StatusCancelled || a.AppointmentID == "" {
			continue
		}
		active = append(active, live{id: a.AppointmentID, day: day})
		ids = append(ids, a.AppointmentID)
	}
	if len(active) == 0 {
		return out
	}

	res := verification.SafeCheck(ctx, gw, ids)
	out.Degraded = res.Degraded
	found := res.Set()
	for _, a := range active {
		if found.Has(a.id) {
			out.Days[a.day].Verified++
		} else {
			out.Days[a.day].NotVerified++
		}
	}
	return out
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
