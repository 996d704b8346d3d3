package tenancy

import (
	"context"
	"strings"
)

type ctxKey string

const viewerKey ctxKey = "clinic_console.viewer"

// Viewer identifies who is looking at the console.
type Viewer struct {
	Clinic      string `json:"clinic_name"`
	DoctorEmail string `json:"doctor_email"`
	DoctorID    string `json:"doctor_id"`
	DoctorName  string `json:"doctor_name"`
}

// Key returns a stable identity for the viewer's data scope.
func (v Viewer) Key() string {
	return NormalizeClinic(v.Clinic) + "|" + strings.ToLower(strings.TrimSpace(v.DoctorEmail))
}

// WithViewer stores the viewer in context.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromContext extracts the viewer if present. A viewer with neither a
// clinic nor a doctor email is treated as absent.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey).(Viewer)
	if !ok {
		return Viewer{}, false
	}
	return v, strings.TrimSpace(v.Clinic) != "" || strings.TrimSpace(v.DoctorEmail) != ""
}
