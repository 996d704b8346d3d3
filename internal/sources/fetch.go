package sources

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/tenancy"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

// Bundle is one fetch cycle's normalized records, not yet tenant filtered.
type Bundle struct {
	Appointments []records.Appointment
	Patients     []records.Patient
	Doctors      []Doctor
}

// Fetcher pulls every collection concurrently. A failing source contributes
// an empty collection and a warning; Fetch itself never fails.
type Fetcher struct {
	appointments AppointmentSource
	patients     PatientSource
	doctors      DoctorDirectory
	logger       *logging.Logger
	metrics      *metrics.ReconcileMetrics
}

func NewFetcher(appointments AppointmentSource, patients PatientSource, doctors DoctorDirectory, logger *logging.Logger, m *metrics.ReconcileMetrics) *Fetcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		logger:       logger,
		metrics:      m,
	}
}

// Fetch loads records for v. doctorEmails narrows the appointment fetch when
// the viewer has no clinic; it defaults to the viewer's own email.
func (f *Fetcher) Fetch(ctx context.Context, v tenancy.Viewer, doctorEmails []string) Bundle {
	if len(cleanEmails(doctorEmails)) == 0 && strings.TrimSpace(v.DoctorEmail) != "" {
		doctorEmails = []string{v.DoctorEmail}
	}
	q := AppointmentQuery{Clinic: v.Clinic, DoctorEmails: doctorEmails}

	var out Bundle
	g, gctx := errgroup.WithContext(ctx)

	if f.appointments != nil {
		g.Go(func() error {
			raws, err := f.appointments.Appointments(gctx, q)
			if err != nil {
				f.fail("appointments", v, err)
				return nil
			}
			out.Appointments = records.NormalizeAppointments(raws)
			f.metrics.ObserveNormalized("appointment", len(out.Appointments))
			return nil
		})
	}
	if f.patients != nil {
		g.Go(func() error {
			raws, err := f.patients.Patients(gctx, v.Clinic)
			if err != nil {
				f.fail("patients", v, err)
				return nil
			}
			out.Patients = records.NormalizePatients(raws)
			f.metrics.ObserveNormalized("patient", len(out.Patients))
			return nil
		})
	}
	// The directory is only listed per clinic so an unscoped viewer never
	// sees every clinic's providers.
	if f.doctors != nil && strings.TrimSpace(v.Clinic) != "" {
		g.Go(func() error {
			docs, err := f.doctors.Doctors(gctx, v.Clinic)
			if err != nil {
				f.fail("doctors", v, err)
				return nil
			}
			out.Doctors = docs
			return nil
		})
	}
	_ = g.Wait()

	if out.Appointments == nil {
		out.Appointments = []records.Appointment{}
	}
	if out.Patients == nil {
		out.Patients = []records.Patient{}
	}
	if out.Doctors == nil {
		out.Doctors = []Doctor{}
	}
	return out
}

func (f *Fetcher) fail(source string, v tenancy.Viewer, err error) {
	f.metrics.ObserveSourceFailure(source)
	f.logger.Warn("record fetch failed; continuing with empty collection",
		"source", source,
		"clinic", v.Clinic,
		"doctor_email", v.DoctorEmail,
		"error", err,
	)
}
