package aggregate

import (
	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

func date(s string) *civil.Date {
	d, ok := records.ParseDate(s)
	if !ok {
		return nil
	}
	return &d
}

func clock(s string) *civil.Time {
	t, ok := records.ParseTime(s)
	if !ok {
		return nil
	}
	return &t
}

func classified(a records.Appointment, cat status.Category) status.Classified {
	return status.Classified{Appointment: a, Category: cat}
}
