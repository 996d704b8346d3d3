package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/clinic-console/internal/records"
)

type recordDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGSource reads raw record payloads stored as JSONB. Rows whose payload is
// not an object are skipped.
type PGSource struct {
	db recordDB
}

func NewPGSource(pool *pgxpool.Pool) *PGSource {
	if pool == nil {
		panic("sources: pgx pool required")
	}
	return &PGSource{db: pool}
}

func NewPGSourceWithDB(db recordDB) *PGSource {
	return &PGSource{db: db}
}

// Appointments mirrors the HTTP source: clinic scope first, then doctor
// emails, nothing when neither is given.
func (s *PGSource) Appointments(ctx context.Context, q AppointmentQuery) ([]records.RawRecord, error) {
	if q.Empty() {
		return nil, nil
	}
	if clinic := strings.TrimSpace(q.Clinic); clinic != "" {
		return s.query(ctx, "sources.pg.appointments", `
			SELECT payload
			FROM appointment_records
			WHERE lower(trim(clinic_name)) = lower($1)
			ORDER BY id`, clinic)
	}
	emails := cleanEmails(q.DoctorEmails)
	for i := range emails {
		emails[i] = strings.ToLower(emails[i])
	}
	return s.query(ctx, "sources.pg.appointments", `
		SELECT payload
		FROM appointment_records
		WHERE lower(doctor_email) = ANY($1)
		ORDER BY id`, emails)
}

func (s *PGSource) Patients(ctx context.Context, clinic string) ([]records.RawRecord, error) {
	if clinic = strings.TrimSpace(clinic); clinic != "" {
		return s.query(ctx, "sources.pg.patients", `
			SELECT payload
			FROM patient_records
			WHERE lower(trim(clinic_name)) = lower($1)
			ORDER BY id`, clinic)
	}
	return s.query(ctx, "sources.pg.patients", `
		SELECT payload
		FROM patient_records
		ORDER BY id`)
}

func (s *PGSource) query(ctx context.Context, span, sql string, args ...any) ([]records.RawRecord, error) {
	ctx, sp := tracer.Start(ctx, span)
	defer sp.End()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		sp.RecordError(err)
		return nil, fmt.Errorf("sources: query records: %w", err)
	}
	defer rows.Close()

	var out []records.RawRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			sp.RecordError(err)
			return nil, fmt.Errorf("sources: scan record: %w", err)
		}
		rec, err := records.DecodeRecord(payload)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		sp.RecordError(err)
		return nil, fmt.Errorf("sources: iterate records: %w", err)
	}
	sp.SetAttributes(attribute.Int("records.count", len(out)))
	return out, nil
}
