package aggregate

import (
	"strings"

	"github.com/wolfman30/clinic-console/internal/records"
)

// PatientQuery is the advanced search form. Blank fields match everything.
type PatientQuery struct {
	DateOfBirth string `json:"dateOfBirth"`
	Email       string `json:"email"`
	Phone       string `json:"phoneNumber"`
}

// Empty reports whether every field is blank.
func (q PatientQuery) Empty() bool {
	return strings.TrimSpace(q.DateOfBirth) == "" && strings.TrimSpace(q.Email) == "" && strings.TrimSpace(q.Phone) == ""
}

// SearchPatients filters by a case-insensitive substring of "first last".
func SearchPatients[T interface{ FullName() string }](list []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	out := make([]T, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.FullName()), q) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p satisfies every non-blank field: dob exactly,
// email case-insensitively as a substring and phone as a substring.
func (q PatientQuery) Matches(p records.Patient) bool {
	if dob := strings.TrimSpace(q.DateOfBirth); dob != "" && (p.DOB == nil || p.DOB.String() != dob) {
		return false
	}
	if email := strings.ToLower(strings.TrimSpace(q.Email)); email != "" && !strings.Contains(strings.ToLower(p.Email), email) {
		return false
	}
	if phone := strings.TrimSpace(q.Phone); phone != "" && !strings.Contains(p.Phone, phone) {
		return false
	}
	return true
}

// AdvancedSearch keeps the items whose patient q matches, in order.
func AdvancedSearch[T any](list []T, q PatientQuery, patientOf func(T) records.Patient) []T {
	if q.Empty() {
		return list
	}
	out := make([]T, 0, len(list))
	for _, p := range list {
		if q.Matches(patientOf(p)) {
			out = append(out, p)
		}
	}
	return out
}

// MaskInsuranceID hides all but the last four characters. Ids shorter than
// four characters are not shown at all.
func MaskInsuranceID(id string) string {
	r := []rune(strings.TrimSpace(id))
	if len(r) < 4 {
		return "Not Available"
	}
	return "XXXXX" + string(r[len(r)-4:])
}
