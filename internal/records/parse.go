package records

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.000",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
	"3:04pm",
}

// ParseDate reads the calendar day from the first ten characters of s, so
// "2024-01-10" and "2024-01-10T23:30:00Z" both yield 2024-01-10. The day is
// never shifted across time zones.
func ParseDate(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(s[:10])
	if err != nil || !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

// ParseTime reads a local wall-clock time such as "09:00", "09:00:00" or "9:00 AM".
func ParseTime(s string) (civil.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Time{}, false
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, true
		}
	}
	return civil.Time{}, false
}

// Date resolves f to a calendar day, or nil.
func Date(rec RawRecord, f Field) *civil.Date {
	raw := String(rec, f)
	if raw == "" {
		return nil
	}
	d, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &d
}

// Time resolves f to a wall-clock time, or nil.
func Time(rec RawRecord, f Field) *civil.Time {
	raw := String(rec, f)
	if raw == "" {
		return nil
	}
	t, ok := ParseTime(raw)
	if !ok {
		return nil
	}
	return &t
}
