package reconcile

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/aggregate"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

// Scoped returns the appointments the doctor filter selects. A viewer with a
// clinic sees the whole clinic and the doctor filter is ignored.
func (s *Snapshot) Scoped() []records.Appointment {
	if s.Viewer.Clinic != "" || len(s.DoctorFilter) == 0 {
		return s.Appointments
	}
	want := make(map[string]struct{}, len(s.DoctorFilter))
	for _, e := range s.DoctorFilter {
		want[e] = struct{}{}
	}
	out := make([]records.Appointment, 0, len(s.Appointments))
	for _, a := range s.Appointments {
		if _, ok := want[strings.ToLower(strings.TrimSpace(a.DoctorEmail))]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Own returns the viewer's own appointments, matched by doctor id or email.
// A viewer without a doctor identity gets everything.
func (s *Snapshot) Own() []records.Appointment {
	id := strings.TrimSpace(s.Viewer.DoctorID)
	email := strings.ToLower(strings.TrimSpace(s.Viewer.DoctorEmail))
	if id == "" && email == "" {
		return s.Appointments
	}
	out := make([]records.Appointment, 0, len(s.Appointments))
	for _, a := range s.Appointments {
		if (id != "" && a.DoctorID == id) || (email != "" && strings.ToLower(strings.TrimSpace(a.DoctorEmail)) == email) {
			out = append(out, a)
		}
	}
	return out
}

// Classify classifies appts against the snapshot's verification set.
func (s *Snapshot) Classify(appts []records.Appointment, now time.Time, loc *time.Location) []status.Classified {
	return status.ClassifyAll(appts, now, loc, s.Verified)
}

// Classify classifies the scoped appointments at the engine clock's now.
func (e *Engine) Classify(snap *Snapshot) []status.Classified {
	out := snap.Classify(snap.Scoped(), e.clock.Now(), e.loc)
	for _, c := range out {
		e.metrics.ObserveClassified(string(c.Category))
	}
	return out
}

// Today is the current day in the engine's location.
func (e *Engine) Today() civil.Date {
	return status.Today(e.clock.Now(), e.loc)
}

// Counts is the period summary for the scoped appointments.
func (e *Engine) Counts(snap *Snapshot, window aggregate.Window) aggregate.Counts {
	return aggregate.PeriodCounts(e.Classify(snap), window, e.Today())
}

// Roster is the patient roll-up over the scoped appointments.
func (e *Engine) Roster(snap *Snapshot, window aggregate.Window) []aggregate.EnrichedPatient {
	out := aggregate.PatientRollup(e.Classify(snap), snap.Index, window)
	for _, p := range out {
		e.metrics.ObserveMatch(string(p.MatchedBy))
	}
	return out
}

// Timeline is today's live view of the viewer's own appointments.
func (e *Engine) Timeline(snap *Snapshot) aggregate.Timeline {
	now := e.clock.Now()
	classified := snap.Classify(snap.Own(), now, e.loc)
	return aggregate.ProviderTimeline(classified, status.Today(now, e.loc), now, e.loc)
}

// Calendar renders the scoped appointments as events.
func (e *Engine) Calendar(snap *Snapshot) []aggregate.Event {
	return aggregate.CalendarEvents(e.Classify(snap), e.loc)
}

// Workload is the viewer's weekly workload. It verifies the week in its own
// gateway batch rather than reusing the snapshot's set.
func (e *Engine) Workload(ctx context.Context, snap *Snapshot) aggregate.Workload {
	return aggregate.WeeklyWorkload(ctx, snap.Own(), e.clock.Now(), e.loc, e.gateway)
}
