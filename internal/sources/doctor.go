package sources

import (
	"context"
	"strings"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/tenancy"
)

var (
	fieldDoctorID        = records.Field{Name: "doctor_id", Aliases: []string{"doctor_id", "doctorId", "id"}}
	fieldDoctorEmail     = records.Field{Name: "doctor_email", Aliases: []string{"doctor_email", "doctorEmail", "email"}}
	fieldDoctorName      = records.Field{Name: "doctor_name", Aliases: []string{"doctor_name", "doctorName"}}
	fieldSpecialty       = records.Field{Name: "specialty", Aliases: []string{"specialization", "specialty"}}
	fieldProfileComplete = records.Field{Name: "profile_complete", Aliases: []string{"profileComplete", "profile_complete"}}
)

// Doctor is a directory entry for a provider.
type Doctor struct {
	ID              string `json:"doctor_id"`
	Email           string `json:"doctor_email"`
	Name            string `json:"doctor_name"`
	ClinicName      string `json:"clinicName"`
	Specialty       string `json:"specialty,omitempty"`
	ProfileComplete bool   `json:"profileComplete"`
}

// NormalizeDoctor reads a directory entry. Complete profiles without an
// explicit display name fall back to "first last".
func NormalizeDoctor(raw records.RawRecord) Doctor {
	d := Doctor{
		ID:              records.String(raw, fieldDoctorID),
		Email:           records.String(raw, fieldDoctorEmail),
		Name:            records.String(raw, fieldDoctorName),
		ClinicName:      records.String(raw, records.FieldClinic),
		Specialty:       records.String(raw, fieldSpecialty),
		ProfileComplete: records.String(raw, fieldProfileComplete) == "true",
	}
	if d.Name == "" {
		d.Name = records.JoinName(records.String(raw, records.FieldFirstName), records.String(raw, records.FieldLastName))
	}
	return d
}

// Matches reports whether the doctor is known by key as email or id.
func (d Doctor) Matches(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	return strings.ToLower(d.Email) == key || strings.ToLower(d.ID) == key
}

// ResolveViewer looks the signed-in email up in the directory and fills the
// doctor id, name and clinic. Claims already present win over the directory;
// directory failures leave the viewer as given.
func ResolveViewer(ctx context.Context, dir DoctorDirectory, v tenancy.Viewer) tenancy.Viewer {
	if dir == nil || strings.TrimSpace(v.DoctorEmail) == "" {
		return v
	}
	doctors, err := dir.Doctors(ctx, "")
	if err != nil {
		return v
	}
	for _, d := range doctors {
		if !d.Matches(v.DoctorEmail) {
			continue
		}
		if v.DoctorID == "" {
			v.DoctorID = d.ID
		}
		if v.DoctorName == "" {
			v.DoctorName = d.Name
		}
		if v.Clinic == "" {
			v.Clinic = d.ClinicName
		}
		if d.Email != "" {
			v.DoctorEmail = d.Email
		}
		break
	}
	return v
}
