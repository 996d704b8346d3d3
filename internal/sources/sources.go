// Package sources fetches raw appointment, patient and doctor payloads from
// the upstream record stores.
package sources

import (
	"context"
	"strings"

	"github.com/wolfman30/clinic-console/internal/records"
)

// AppointmentQuery scopes an appointment fetch. A clinic takes priority over
// the doctor email list.
type AppointmentQuery struct {
	Clinic       string
	DoctorEmails []string
}

// Empty reports whether the query names neither a clinic nor a doctor.
func (q AppointmentQuery) Empty() bool {
	return strings.TrimSpace(q.Clinic) == "" && len(cleanEmails(q.DoctorEmails)) == 0
}

type AppointmentSource interface {
	Appointments(ctx context.Context, q AppointmentQuery) ([]records.RawRecord, error)
}

type PatientSource interface {
	Patients(ctx context.Context, clinic string) ([]records.RawRecord, error)
}

type DoctorDirectory interface {
	Doctors(ctx context.Context, clinic string) ([]Doctor, error)
}

func cleanEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
