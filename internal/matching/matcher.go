// Package matching links appointments to patients when the upstreams share no
// reliable key. Strategies are tried from strongest to weakest key; within a
// strategy the first patient in slice order wins.
package matching

import (
	"strings"

	"github.com/wolfman30/clinic-console/internal/records"
)

// Strategy names the key that produced a match.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyPatientID Strategy = "patient_id"
	StrategyMRN       Strategy = "mrn"
	StrategyEmail     Strategy = "email"
	StrategyName      Strategy = "name"
)

// Strategies lists the cascade in evaluation order.
var Strategies = []Strategy{StrategyPatientID, StrategyMRN, StrategyEmail, StrategyName}

// appointmentKey returns the appointment side of a strategy's key, or "" when absent.
func appointmentKey(s Strategy, a records.Appointment) string {
	switch s {
	case StrategyPatientID:
		return strings.TrimSpace(a.PatientID)
	case StrategyMRN:
		return strings.TrimSpace(a.MRN)
	case StrategyEmail:
		return foldKey(a.Email)
	case StrategyName:
		return nameKey(a.FullName)
	default:
		return ""
	}
}

func patientKey(s Strategy, p records.Patient) string {
	switch s {
	case StrategyPatientID:
		return strings.TrimSpace(p.PatientID)
	case StrategyMRN:
		return strings.TrimSpace(p.MRN)
	case StrategyEmail:
		return foldKey(p.Email)
	case StrategyName:
		return nameKey(p.FullName())
	default:
		return ""
	}
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nameKey collapses internal whitespace so "Jane  Doe" and "jane doe" agree.
func nameKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Match scans patients once per strategy and returns the first hit along with
// the strategy that produced it. It returns (nil, StrategyNone) when no
// strategy matches.
func Match(appt records.Appointment, patients []records.Patient) (*records.Patient, Strategy) {
	for _, s := range Strategies {
		key := appointmentKey(s, appt)
		if key == "" {
			continue
		}
		for i := range patients {
			if patientKey(s, patients[i]) == key {
				return &patients[i], s
			}
		}
	}
	return nil, StrategyNone
}
