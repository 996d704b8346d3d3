package aggregate

import (
	"cloud.google.com/go/civil"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

// TodayByType splits the current day's live appointments by visit type.
type TodayByType struct {
	Total    int `json:"total"`
	InPerson int `json:"inPerson"`
	Virtual  int `json:"virtual"`
}

// Counts is the period summary shown on the dashboard.
type Counts struct {
	Window     Window                  `json:"window"`
	ByCategory map[status.Category]int `json:"byCategory"`
	Total      int                     `json:"total"`
	Today      TodayByType             `json:"today"`
}

// PeriodCounts counts dated appointments per category inside window, and
// breaks down today's non-cancelled appointments by type.
func PeriodCounts(classified []status.Classified, window Window, today civil.Date) Counts {
	out := Counts{
		Window:     window,
		ByCategory: make(map[status.Category]int, len(status.Categories)),
	}
	for _, c := range status.Categories {
		out.ByCategory[c] = 0
	}

	for _, c := range classified {
		if !c.Dated() {
			continue
		}
		if window.Contains(*c.Date) {
			out.ByCategory[c.Category]++
			out.Total++
		}
		if *c.Date != today || c.ExplicitStatus == records.StatusCancelled {
			continue
		}
		out.Today.Total++
		switch {
		case c.Type == records.VisitInPerson:
			out.Today.InPerson++
		case c.Type.IsRemote():
			out.Today.Virtual++
		}
	}
	return out
}
