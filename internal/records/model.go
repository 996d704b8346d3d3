package records

import (
	"strings"

	"cloud.google.com/go/civil"
)

// Status is the status flag an upstream attached to an appointment.
type Status string

const (
	StatusUnset       Status = ""
	StatusScheduled   Status = "scheduled"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
	StatusCompleted   Status = "completed"
	StatusInProgress  Status = "in-progress"
	StatusWaiting     Status = "waiting"
	StatusNoShow      Status = "no-show"
)

// ParseStatus maps upstream spellings onto Status; unknown values are unset.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled", "booked":
		return StatusScheduled
	case "cancelled", "canceled":
		return StatusCancelled
	case "rescheduled":
		return StatusRescheduled
	case "completed":
		return StatusCompleted
	case "in-progress", "in_progress", "inprogress":
		return StatusInProgress
	case "waiting":
		return StatusWaiting
	case "no-show", "no_show", "noshow":
		return StatusNoShow
	default:
		return StatusUnset
	}
}

// VisitType is how the visit takes place.
type VisitType string

const (
	VisitUnknown  VisitType = ""
	VisitInPerson VisitType = "in-person"
	VisitVirtual  VisitType = "virtual"
	VisitOnline   VisitType = "online"
)

func ParseVisitType(s string) VisitType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in-person", "in_person", "inperson":
		return VisitInPerson
	case "virtual":
		return VisitVirtual
	case "online":
		return VisitOnline
	default:
		return VisitUnknown
	}
}

// IsRemote reports whether the visit is virtual or online.
func (v VisitType) IsRemote() bool {
	return v == VisitVirtual || v == VisitOnline
}

// Patient is a normalized patient record.
type Patient struct {
	PatientID         string      `json:"patient_id"`
	MRN               string      `json:"mrn"`
	FirstName         string      `json:"first_name"`
	MiddleName        string      `json:"middle_name"`
	LastName          string      `json:"last_name"`
	DOB               *civil.Date `json:"dob"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	ClinicName        string      `json:"clinic_name,omitempty"`
	InsuranceProvider string      `json:"insurance_provider"`
	InsuranceID       string      `json:"insurance_id"`
}

// FullName joins first and last name with a single space.
func (p Patient) FullName() string {
	return JoinName(p.FirstName, p.LastName)
}

// JoinName trims both parts and joins the non-empty ones with one space.
func JoinName(first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// Appointment is a normalized appointment record.
type Appointment struct {
	AppointmentID  string      `json:"id"`
	PatientID      string      `json:"patient_id,omitempty"`
	MRN            string      `json:"mrn,omitempty"`
	Email          string      `json:"email,omitempty"`
	FullName       string      `json:"full_name"`
	DoctorID       string      `json:"doctor_id"`
	DoctorEmail    string      `json:"doctor_email"`
	DoctorName     string      `json:"doctor_name"`
	Date           *civil.Date `json:"date"`
	Time           *civil.Time `json:"time"`
	ExplicitStatus Status      `json:"status"`
	ClinicName     string      `json:"clinic_name,omitempty"`
	Type           VisitType   `json:"type"`
}

// Start combines date and time. ok is false when either part is missing.
func (a Appointment) Start() (civil.DateTime, bool) {
	if a.Date == nil || a.Time == nil {
		return civil.DateTime{}, false
	}
	return civil.DateTime{Date: *a.Date, Time: *a.Time}, true
}

// NormalizePatient extracts the canonical patient fields from raw.
func NormalizePatient(raw RawRecord) Patient {
	return Patient{
		PatientID:         String(raw, FieldPatientID),
		MRN:               String(raw, FieldMRN),
		FirstName:         String(raw, FieldFirstName),
		MiddleName:        String(raw, FieldMiddleName),
		LastName:          String(raw, FieldLastName),
		DOB:               Date(raw, FieldDOB),
		Email:             String(raw, FieldEmail),
		Phone:             String(raw, FieldPhone),
		ClinicName:        String(raw, FieldClinic),
		InsuranceProvider: String(raw, FieldInsurer),
		InsuranceID:       String(raw, FieldInsuranceID),
	}
}

// NormalizeAppointment extracts the canonical appointment fields from raw.
func NormalizeAppointment(raw RawRecord) Appointment {
	appt := Appointment{
		AppointmentID:  String(raw, FieldAppointmentID),
		PatientID:      String(raw, FieldPatientID),
		MRN:            String(raw, FieldMRN),
		Email:          String(raw, FieldEmail),
		FullName:       String(raw, FieldFullName),
		DoctorID:       String(raw, FieldDoctorID),
		DoctorEmail:    String(raw, FieldDoctorEmail),
		DoctorName:     String(raw, FieldDoctorName),
		Date:           Date(raw, FieldApptDate),
		Time:           Time(raw, FieldApptTime),
		ExplicitStatus: ParseStatus(String(raw, FieldStatus)),
		ClinicName:     String(raw, FieldClinic),
		Type:           ParseVisitType(String(raw, FieldType)),
	}
	if appt.DoctorName == "" && appt.DoctorEmail != "" {
		appt.DoctorName, _, _ = strings.Cut(appt.DoctorEmail, "@")
	}
	return appt
}

// NormalizePatients normalizes every record, preserving order.
func NormalizePatients(raws []RawRecord) []Patient {
	out := make([]Patient, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizePatient(raw))
	}
	return out
}

// NormalizeAppointments normalizes every record, preserving order.
func NormalizeAppointments(raws []RawRecord) []Appointment {
	out := make([]Appointment, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeAppointment(raw))
	}
	return out
}
