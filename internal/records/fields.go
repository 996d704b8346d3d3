package records

// Every call site resolves fields through these declarations so a logical
// field is always read with the same cascade.
var (
	FieldPatientID   = Field{Name: "patient_id", Aliases: []string{"patient_id", "patientId", "patientID"}}
	FieldMRN         = Field{Name: "mrn", Aliases: []string{"mrn", "MRN", "medical_record_number"}}
	FieldFirstName   = Field{Name: "first_name", Aliases: []string{"firstname", "first_name", "firstName"}}
	FieldMiddleName  = Field{Name: "middle_name", Aliases: []string{"middlename", "middle_name", "middleName"}}
	FieldLastName    = Field{Name: "last_name", Aliases: []string{"lastname", "last_name", "lastName"}}
	FieldDOB         = Field{Name: "dob", Aliases: []string{"dob", "date_of_birth", "birthDate"}}
	FieldEmail       = Field{Name: "email", Aliases: []string{"email"}}
	FieldPhone       = Field{Name: "phone", Aliases: []string{"contactmobilephone", "phone", "mobile_phone"}}
	FieldClinic      = Field{Name: "clinic_name", Aliases: []string{"clinicName", "clinic_name"}}
	FieldInsurer     = Field{Name: "insurance_provider", Aliases: []string{"insurance_provider", "insuranceProvider"}}
	FieldInsuranceID = Field{Name: "insurance_id", Aliases: []string{"insurance_id", "insuranceId", "insuranceID"}}

	FieldAppointmentID = Field{Name: "appointment_id", Aliases: []string{"id", "appointmentID", "appointmentId", "appointment_id"}}
	FieldFullName      = Field{Name: "full_name", Aliases: []string{"full_name", "fullName", "patient_name"}}
	FieldDoctorID      = Field{Name: "doctor_id", Aliases: []string{"doctorId", "doctor_id"}}
	FieldDoctorEmail   = Field{Name: "doctor_email", Aliases: []string{"doctor_email", "doctorEmail"}}
	FieldDoctorName    = Field{Name: "doctor_name", Aliases: []string{"doctor_name", "doctorName", "providerName"}}
	FieldApptDate      = Field{Name: "appointment_date", Aliases: []string{"appointment_date", "appointmentDate", "date", "timestamp", "created_at"}}
	FieldApptTime      = Field{Name: "appointment_time", Aliases: []string{"appointment_time", "start_time", "slot_start_time", "time"}}
	FieldStatus        = Field{Name: "status", Aliases: []string{"status"}}
	FieldType          = Field{Name: "type", Aliases: []string{"type", "appointment_type"}}
)
