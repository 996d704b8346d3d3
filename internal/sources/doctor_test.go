package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/tenancy"
)

func TestNormalizeDoctor(t *testing.T) {
	d := NormalizeDoctor(records.RawRecord{
		"doctor_id":      "d1",
		"doctor_email":   "kim@acme.com",
		"doctor_name":    "Dr. Kim",
		"specialization": "Dermatology",
		"details":        map[string]any{"clinicName": "Acme"},
	})
	assert.Equal(t, Doctor{ID: "d1", Email: "kim@acme.com", Name: "Dr. Kim", ClinicName: "Acme", Specialty: "Dermatology"}, d)
	assert.True(t, d.Matches(" KIM@acme.com"))
	assert.True(t, d.Matches("D1"))
	assert.False(t, d.Matches(""))
}

type dirFunc func(ctx context.Context, clinic string) ([]Doctor, error)

func (f dirFunc) Doctors(ctx context.Context, clinic string) ([]Doctor, error) { return f(ctx, clinic) }

func TestResolveViewer(t *testing.T) {
	dir := dirFunc(func(context.Context, string) ([]Doctor, error) {
		return []Doctor{
			{ID: "d0", Email: "other@acme.com", ClinicName: "Acme"},
			{ID: "d1", Email: "kim@acme.com", Name: "Dr. Kim", ClinicName: "Acme"},
		}, nil
	})

	got := ResolveViewer(context.Background(), dir, tenancy.Viewer{DoctorEmail: "KIM@acme.com"})
	assert.Equal(t, tenancy.Viewer{Clinic: "Acme", DoctorEmail: "kim@acme.com", DoctorID: "d1", DoctorName: "Dr. Kim"}, got)

	got = ResolveViewer(context.Background(), dir, tenancy.Viewer{DoctorEmail: "kim@acme.com", Clinic: "Beta"})
	assert.Equal(t, "Beta", got.Clinic)

	failing := dirFunc(func(context.Context, string) ([]Doctor, error) { return nil, errors.New("down") })
	v := tenancy.Viewer{DoctorEmail: "kim@acme.com"}
	assert.Equal(t, v, ResolveViewer(context.Background(), failing, v))
	assert.Equal(t, v, ResolveViewer(context.Background(), nil, v))
}
