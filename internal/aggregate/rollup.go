package aggregate

import (
	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/matching"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

// EnrichedPatient is a patient with the latest appointment matched to them.
type EnrichedPatient struct {
	records.Patient
	LastVisit          *civil.Date       `json:"lastVisit"`
	MatchedAppointment status.Classified `json:"matchedAppointment"`
	MatchedBy          matching.Strategy `json:"matchedBy"`
	DoctorName         string            `json:"doctorName"`
}

// PatientRollup keeps, per matched patient, the appointment with the latest
// date inside window. Ties keep the first appointment seen and output follows
// first-seen patient order. Unmatched appointments are dropped.
func PatientRollup(classified []status.Classified, index *matching.Index, window Window) []EnrichedPatient {
	out := make([]EnrichedPatient, 0)
	slot := make(map[*records.Patient]int)

	for _, c := range classified {
		if !window.admits(c) {
			continue
		}
		p, strategy := index.Match(c.Appointment)
		if p == nil {
			continue
		}
		i, seen := slot[p]
		if !seen {
			slot[p] = len(out)
			out = append(out, enrich(*p, c, strategy))
			continue
		}
		if later(c, out[i].MatchedAppointment) {
			out[i] = enrich(*p, c, strategy)
		}
	}
	return out
}

// later reports whether candidate strictly beats current. A dated
// appointment always beats an undated one.
func later(candidate, current status.Classified) bool {
	switch {
	case !candidate.Dated():
		return false
	case !current.Dated():
		return true
	default:
		return candidate.Date.After(*current.Date)
	}
}

func enrich(p records.Patient, c status.Classified, strategy matching.Strategy) EnrichedPatient {
	return EnrichedPatient{
		Patient:            p,
		LastVisit:          c.Date,
		MatchedAppointment: c,
		MatchedBy:          strategy,
		DoctorName:         c.DoctorName,
	}
}
