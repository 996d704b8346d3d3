package matching

import "github.com/wolfman30/clinic-console/internal/records"

// Index answers the same question as Match without rescanning the patient
// list for every appointment. The first patient carrying a key owns it, which
// keeps results identical to Match for the same ordering.
type Index struct {
	patients []records.Patient
	byKey    map[Strategy]map[string]int
}

// NewIndex builds an index over patients. The slice is retained and must not
// be modified afterwards.
func NewIndex(patients []records.Patient) *Index {
	idx := &Index{
		patients: patients,
		byKey:    make(map[Strategy]map[string]int, len(Strategies)),
	}
	for _, s := range Strategies {
		keys := make(map[string]int, len(patients))
		for i, p := range patients {
			k := patientKey(s, p)
			if k == "" {
				continue
			}
			if _, seen := keys[k]; !seen {
				keys[k] = i
			}
		}
		idx.byKey[s] = keys
	}
	return idx
}

// Len returns the number of indexed patients.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.patients)
}

// Match returns the best patient for appt.
func (idx *Index) Match(appt records.Appointment) (*records.Patient, Strategy) {
	if idx == nil {
		return nil, StrategyNone
	}
	for _, s := range Strategies {
		key := appointmentKey(s, appt)
		if key == "" {
			continue
		}
		if i, ok := idx.byKey[s][key]; ok {
			return &idx.patients[i], s
		}
	}
	return nil, StrategyNone
}
