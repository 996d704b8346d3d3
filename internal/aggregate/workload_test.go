package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/verification"
)

// Wednesday 2024-01-10; the week runs Sunday 2024-01-07 through Saturday 2024-01-13.
var workloadNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func workloadAppts() []records.Appointment {
	return []records.Appointment{
		{AppointmentID: "sun", Date: date("2024-01-07")},
		{AppointmentID: "wed1", Date: date("2024-01-10")},
		{AppointmentID: "wed2", Date: date("2024-01-10")},
		{AppointmentID: "wed-x", Date: date("2024-01-10"), ExplicitStatus: records.StatusCancelled},
		{AppointmentID: "sat", Date: date("2024-01-13")},
		{AppointmentID: "prev-sat", Date: date("2024-01-06")},
		{AppointmentID: "next-sun", Date: date("2024-01-14")},
		{AppointmentID: "undated"},
	}
}

func TestWeeklyWorkload(t *testing.T) {
	var batches [][]string
	gw := verification.GatewayFunc(func(_ context.Context, ids []string) verification.Result {
		batches = append(batches, ids)
		return verification.Result{Found: []string{"wed1", "sat"}}
	})

	got := WeeklyWorkload(context.Background(), workloadAppts(), workloadNow, time.UTC, gw)

	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []string{"sun", "wed1", "wed2", "sat"}, batches[0])
	assert.Equal(t, "2024-01-07", got.WeekStart.String())
	assert.Equal(t, time.Sunday, got.Days[0].Weekday)
	assert.Equal(t, DayLoad{Weekday: time.Sunday, Date: *date("2024-01-07"), Total: 1, NotVerified: 1}, got.Days[time.Sunday])
	assert.Equal(t, DayLoad{Weekday: time.Wednesday, Date: *date("2024-01-10"), Total: 3, Verified: 1, NotVerified: 1}, got.Days[time.Wednesday])
	assert.Equal(t, DayLoad{Weekday: time.Saturday, Date: *date("2024-01-13"), Total: 1, Verified: 1}, got.Days[time.Saturday])
	assert.Zero(t, got.Days[time.Monday].Total)
	assert.False(t, got.Degraded)
}

func TestWeeklyWorkloadGatewayFailure(t *testing.T) {
	gw := verification.GatewayFunc(func(context.Context, []string) verification.Result {
		panic("gateway unreachable")
	})

	var got Workload
	require.NotPanics(t, func() {
		got = WeeklyWorkload(context.Background(), workloadAppts(), workloadNow, time.UTC, gw)
	})
	assert.True(t, got.Degraded)
	for _, d := range got.Days {
		assert.Zero(t, d.Verified)
	}
	assert.Equal(t, 2, got.Days[time.Wednesday].NotVerified)
}

func TestWeeklyWorkloadSkipsGatewayWithoutLiveAppointments(t *testing.T) {
	called := false
	gw := verification.GatewayFunc(func(context.Context, []string) verification.Result {
		called = true
		return verification.Result{}
	})
	appts := []records.Appointment{{AppointmentID: "x", Date: date("2024-01-08"), ExplicitStatus: records.StatusCancelled}}

	got := WeeklyWorkload(context.Background(), appts, workloadNow, time.UTC, gw)
	assert.False(t, called)
	assert.Equal(t, 1, got.Days[time.Monday].Total)
}

func TestWeekStartUsesViewerLocation(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	// Sunday 02:00 UTC is still Saturday evening in Los Angeles.
	now := time.Date(2024, 1, 14, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-14", WeekStart(now, time.UTC).String())
	assert.Equal(t, "2024-01-07", WeekStart(now, la).String())
}
