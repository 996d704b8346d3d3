package router

import (
	"net/http"

	"github.com/wolfman30/clinic-console/internal/tenancy"
)

// requireClinicViewer limits a route to viewers scoped to a clinic.
func requireClinicViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := tenancy.ViewerFromContext(r.Context())
		if !ok || v.Clinic == "" {
			http.Error(w, `{"error":"clinic viewer required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
