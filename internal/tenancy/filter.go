package tenancy

import "strings"

// NormalizeClinic trims and case-folds a clinic name for comparison.
func NormalizeClinic(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsVisible reports whether a record tagged with recordClinic may be shown to a
// viewer of viewerClinic. A viewer without a clinic sees everything, and
// records without a clinic (legacy, untagged) are visible to every viewer.
func IsVisible(viewerClinic, recordClinic string) bool {
	viewer := NormalizeClinic(viewerClinic)
	if viewer == "" {
		return true
	}
	record := NormalizeClinic(recordClinic)
	return record == "" || record == viewer
}

// Filter returns the items visible to viewerClinic in their original order.
// The input is never modified; filtering an already filtered slice yields the
// same elements.
func Filter[T any](viewerClinic string, items []T, clinicOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if IsVisible(viewerClinic, clinicOf(item)) {
			out = append(out, item)
		}
	}
	return out
}
