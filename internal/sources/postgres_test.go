package sources

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-console/internal/records"
)

func TestPGSourceAppointmentsByClinic(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT payload\s+FROM appointment_records\s+WHERE lower\(trim\(clinic_name\)\) = lower\(\$1\)`).
		WithArgs("Acme").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"A1","original_json":{"details":{"clinicName":"Acme"}}}`)).
			AddRow([]byte(`"not an object"`)).
			AddRow([]byte(`{"id":"A2"}`)))

	src := NewPGSourceWithDB(mock)
	got, err := src.Appointments(context.Background(), AppointmentQuery{Clinic: "Acme"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", records.String(got[0], records.FieldClinic))
	assert.Equal(t, "A2", records.String(got[1], records.FieldAppointmentID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSourceAppointmentsByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WHERE lower\(doctor_email\) = ANY\(\$1\)`).
		WithArgs([]string{"kim@acme.com"}).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte(`{"id":"A1"}`)))

	got, err := NewPGSourceWithDB(mock).Appointments(context.Background(), AppointmentQuery{DoctorEmails: []string{"Kim@Acme.com"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSourcePatients(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT payload\s+FROM patient_records\s+ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow([]byte(`{"patient_id":"P1"}`)))
	mock.ExpectQuery(`FROM patient_records\s+WHERE`).
		WithArgs("Beta").
		WillReturnError(errors.New("connection reset"))

	src := NewPGSourceWithDB(mock)
	got, err := src.Patients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = src.Patients(context.Background(), "Beta")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources: query records")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGSourceWithoutScope(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	got, err := NewPGSourceWithDB(mock).Appointments(context.Background(), AppointmentQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
