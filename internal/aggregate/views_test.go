package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

func TestProviderTimeline(t *testing.T) {
	today := *date("2024-06-23")
	now := time.Date(2024, 6, 23, 11, 0, 0, 0, time.UTC)
	appts := []status.Classified{
		classified(records.Appointment{AppointmentID: "b", DoctorName: "Dr. Kim", Date: &today, Time: clock("10:30"), ExplicitStatus: records.StatusCompleted}, status.NoShow),
		classified(records.Appointment{AppointmentID: "a", DoctorName: "Dr. Kim", Date: &today, Time: clock("09:00"), ExplicitStatus: records.StatusWaiting}, status.NoShow),
		classified(records.Appointment{AppointmentID: "c", DoctorName: "Dr. Ng", Date: &today, Time: clock("13:00"), ExplicitStatus: records.StatusInProgress}, status.Upcoming),
		classified(records.Appointment{AppointmentID: "d", DoctorName: "Dr. Ng", Date: &today, ExplicitStatus: records.StatusScheduled}, status.Upcoming),
		classified(records.Appointment{AppointmentID: "x", DoctorName: "Dr. Ng", Date: &today, Time: clock("08:00"), ExplicitStatus: records.StatusCancelled}, status.Cancelled),
		classified(records.Appointment{AppointmentID: "y", DoctorName: "Dr. Ng", Date: date("2024-06-22"), Time: clock("08:00")}, status.NoShow),
	}

	got := ProviderTimeline(appts, today, now, time.UTC)

	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 1, got.Waiting)
	require.Len(t, got.Providers, 2)
	assert.Equal(t, "Dr. Kim", got.Providers[0].Name)
	assert.Equal(t, "a", got.Providers[0].Appointments[0].AppointmentID)
	assert.Equal(t, "b", got.Providers[0].Appointments[1].AppointmentID)
	assert.Equal(t, "c", got.Providers[1].Appointments[0].AppointmentID)
	assert.Equal(t, "d", got.Providers[1].Appointments[1].AppointmentID)
}

func TestCalendarEvents(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	verified := classified(records.Appointment{
		AppointmentID: "A1", FullName: "Jane Doe", DoctorEmail: "kim@clinic.com",
		Date: date("2024-03-10"), Time: clock("14:15"), ExplicitStatus: records.StatusScheduled,
	}, status.Completed)
	verified.Verified = true
	untimed := classified(records.Appointment{AppointmentID: "A2", Date: date("2024-03-10")}, status.Upcoming)
	unset := classified(records.Appointment{AppointmentID: "A3", FullName: "Ray Lee", Date: date("2024-03-11"), Time: clock("09:00")}, status.Upcoming)

	events := CalendarEvents([]status.Classified{verified, untimed, unset}, ny)
	require.Len(t, events, 2)

	assert.Equal(t, "Jane Doe (Scheduled • Verified)", events[0].Title)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 15, 0, 0, ny), events[0].Start)
	assert.Equal(t, 30*time.Minute, events[0].End.Sub(events[0].Start))
	assert.True(t, events[0].Verified)
	assert.Equal(t, doctorColor("KIM@clinic.com"), events[0].Color)

	assert.Equal(t, "Ray Lee (Unknown • Not Verified)", events[1].Title)
	assert.Equal(t, "#4B5563", events[1].Color)
}

func TestSearchPatients(t *testing.T) {
	list := []records.Patient{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "555-0101", DOB: date("1990-04-01")},
		{FirstName: "Ray", LastName: "Lee", Email: "RAY@y.com", Phone: "555-0202"},
	}

	assert.Len(t, SearchPatients(list, ""), 2)
	got := SearchPatients(list, " e DO")
	require.Len(t, got, 1)
	assert.Equal(t, "Jane", got[0].FirstName)

	self := func(p records.Patient) records.Patient { return p }
	assert.Len(t, AdvancedSearch(list, PatientQuery{}, self), 2)
	got = AdvancedSearch(list, PatientQuery{Email: "ray@"}, self)
	require.Len(t, got, 1)
	assert.Equal(t, "Ray", got[0].FirstName)
	got = AdvancedSearch(list, PatientQuery{DateOfBirth: "1990-04-01", Phone: "0101"}, self)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane", got[0].FirstName)
	assert.Empty(t, AdvancedSearch(list, PatientQuery{DateOfBirth: "1990-04-01", Phone: "0202"}, self))
}

func TestMaskInsuranceID(t *testing.T) {
	assert.Equal(t, "XXXXX6789", MaskInsuranceID("ABC123456789"))
	assert.Equal(t, "XXXXX1234", MaskInsuranceID("1234"))
	assert.Equal(t, "Not Available", MaskInsuranceID("123"))
	assert.Equal(t, "Not Available", MaskInsuranceID(""))
	assert.Equal(t, "XXXXXé123", MaskInsuranceID("INSé123"))
	assert.Equal(t, "XXXXXñéü1", MaskInsuranceID("ñéü1"))
	assert.Equal(t, "Not Available", MaskInsuranceID("ñéü"))
}
