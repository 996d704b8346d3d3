package aggregate

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/status"
)

const eventDuration = 30 * time.Minute

// Event is a calendar entry for one appointment.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Verified    bool            `json:"verified"`
	Category    status.Category `json:"statusCategory"`
	DoctorEmail string          `json:"doctorEmail"`
	DoctorName  string          `json:"doctorName"`
	Color       string          `json:"color"`
}

// CalendarEvents renders classified appointments as fixed-length events in
// loc. Appointments without both a date and a time are skipped.
func CalendarEvents(classified []status.Classified, loc *time.Location) []Event {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Event, 0, len(classified))
	for _, c := range classified {
		start, ok := c.Start()
		if !ok {
			continue
		}
		at := start.In(loc)
		out = append(out, Event{
			ID:          c.AppointmentID,
			Title:       eventTitle(c),
			Start:       at,
			End:         at.Add(eventDuration),
			Verified:    c.Verified,
			Category:    c.Category,
			DoctorEmail: c.DoctorEmail,
			DoctorName:  c.DoctorName,
			Color:       doctorColor(c.DoctorEmail),
		})
	}
	return out
}

func eventTitle(c status.Classified) string {
	label := "Not Verified"
	if c.Verified {
		label = "Verified"
	}
	return fmt.Sprintf("%s (%s • %s)", c.FullName, statusLabel(c.ExplicitStatus), label)
}

func statusLabel(s records.Status) string {
	if s == records.StatusUnset {
		return "Unknown"
	}
	v := string(s)
	return strings.ToUpper(v[:1]) + v[1:]
}

// doctorColor gives each provider a stable hue.
func doctorColor(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return "#4B5563"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return fmt.Sprintf("hsl(%d, 65%%, 45%%)", h.Sum32()%360)
}
