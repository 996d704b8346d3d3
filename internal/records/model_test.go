package records

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want civil.Date
		ok   bool
	}{
		{"2024-01-10", civil.Date{Year: 2024, Month: 1, Day: 10}, true},
		{"2024-01-10T23:30:00Z", civil.Date{Year: 2024, Month: 1, Day: 10}, true},
		{" 2024-02-20 ", civil.Date{Year: 2024, Month: 2, Day: 20}, true},
		{"2024-13-01", civil.Date{}, false},
		{"01/10/2024", civil.Date{}, false},
		{"", civil.Date{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want civil.Time
		ok   bool
	}{
		{"09:00", civil.Time{Hour: 9}, true},
		{"17:45:30", civil.Time{Hour: 17, Minute: 45, Second: 30}, true},
		{"2:15 PM", civil.Time{Hour: 14, Minute: 15}, true},
		{"25:00", civil.Time{}, false},
		{"soon", civil.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizePatient(t *testing.T) {
	raw := RawRecord{
		"patient_id": "P1",
		"firstname":  " Jane ",
		"last_name":  "Doe",
		"details": map[string]any{
			"email":      "Jane@Example.com",
			"clinicName": "Acme",
		},
		"original_json": map[string]any{
			"original_json": map[string]any{
				"details": map[string]any{"dob": "1990-04-02"},
			},
		},
		"insurance_id": "INS-123456",
	}

	p := NormalizePatient(raw)
	assert.Equal(t, "P1", p.PatientID)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, "Jane Doe", p.FullName())
	assert.Equal(t, "Jane@Example.com", p.Email)
	assert.Equal(t, "Acme", p.ClinicName)
	require.NotNil(t, p.DOB)
	assert.Equal(t, "1990-04-02", p.DOB.String())
	assert.Equal(t, "INS-123456", p.InsuranceID)
	assert.Equal(t, "", p.MRN)
}

func TestNormalizeAppointment(t *testing.T) {
	raw := RawRecord{
		"appointmentID":    "A1",
		"patientId":        "P1",
		"full_name":        "Jane Doe",
		"doctor_email":     "dr.house@clinic.test",
		"appointment_date": "2024-01-10T00:00:00Z",
		"time":             "09:30",
		"status":           "Canceled",
		"type":             "online",
		"original_json":    map[string]any{"details": map[string]any{"clinicName": "Acme"}},
	}

	a := NormalizeAppointment(raw)
	assert.Equal(t, "A1", a.AppointmentID)
	assert.Equal(t, "P1", a.PatientID)
	assert.Equal(t, "dr.house", a.DoctorName)
	require.NotNil(t, a.Date)
	assert.Equal(t, "2024-01-10", a.Date.String())
	require.NotNil(t, a.Time)
	assert.Equal(t, civil.Time{Hour: 9, Minute: 30}, *a.Time)
	assert.Equal(t, StatusCancelled, a.ExplicitStatus)
	assert.Equal(t, VisitOnline, a.Type)
	assert.True(t, a.Type.IsRemote())
	assert.Equal(t, "Acme", a.ClinicName)

	start, ok := a.Start()
	require.True(t, ok)
	assert.Equal(t, "2024-01-10T09:30:00", start.String())
}

func TestNormalizeAppointmentMissingFields(t *testing.T) {
	a := NormalizeAppointment(RawRecord{"id": "A9", "date": "garbage", "time": "later"})
	assert.Equal(t, "A9", a.AppointmentID)
	assert.Nil(t, a.Date)
	assert.Nil(t, a.Time)
	assert.Equal(t, StatusUnset, a.ExplicitStatus)
	assert.Equal(t, VisitUnknown, a.Type)
	_, ok := a.Start()
	assert.False(t, ok)
}

func TestParseStatusAndVisitType(t *testing.T) {
	assert.Equal(t, StatusNoShow, ParseStatus("no_show"))
	assert.Equal(t, StatusInProgress, ParseStatus(" In-Progress "))
	assert.Equal(t, StatusUnset, ParseStatus("pending-review"))
	assert.Equal(t, VisitInPerson, ParseVisitType("In_Person"))
	assert.False(t, VisitInPerson.IsRemote())
}

func TestJoinName(t *testing.T) {
	assert.Equal(t, "Jane Doe", JoinName(" Jane", "Doe "))
	assert.Equal(t, "Doe", JoinName("", "Doe"))
	assert.Equal(t, "Jane", JoinName("Jane", "  "))
	assert.Equal(t, "", JoinName("", ""))
}
