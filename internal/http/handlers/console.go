package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/clinic-console/internal/aggregate"
	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/internal/reconcile"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/sources"
	"github.com/wolfman30/clinic-console/internal/status"
	"github.com/wolfman30/clinic-console/internal/tenancy"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

const defaultTimelineTick = time.Second

// ConsoleHandler serves the reconciled dashboard views for the signed-in
// viewer.
type ConsoleHandler struct {
	engine   *reconcile.Engine
	gatherer prometheus.Gatherer
	tick     time.Duration
	logger   *logging.Logger
}

// NewConsoleHandler creates a console handler. gatherer backs the
// verification latency view; nil uses the default registry.
func NewConsoleHandler(engine *reconcile.Engine, gatherer prometheus.Gatherer, tick time.Duration, logger *logging.Logger) *ConsoleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if tick <= 0 {
		tick = defaultTimelineTick
	}
	return &ConsoleHandler{
		engine:   engine,
		gatherer: gatherer,
		tick:     tick,
		logger:   logger,
	}
}

// SnapshotInfo describes the snapshot a response was computed from.
type SnapshotInfo struct {
	ID                   uuid.UUID      `json:"snapshot_id"`
	Version              uint64         `json:"version"`
	FetchedAt            time.Time      `json:"fetched_at"`
	Viewer               tenancy.Viewer `json:"viewer"`
	VerificationDegraded bool           `json:"verification_degraded"`
}

// DashboardResponse is the appointment statistics panel.
type DashboardResponse struct {
	SnapshotInfo
	Counts aggregate.Counts `json:"counts"`
}

// PatientView is a roster row with the insurance id masked.
type PatientView struct {
	aggregate.EnrichedPatient
	InsuranceID string `json:"insurance_id"`
}

// PatientsResponse is the patient roll-up.
type PatientsResponse struct {
	SnapshotInfo
	Window   aggregate.Window `json:"window"`
	Patients []PatientView    `json:"patients"`
}

// AppointmentsResponse lists the scoped appointments with their categories.
type AppointmentsResponse struct {
	SnapshotInfo
	Appointments []status.Classified `json:"appointments"`
}

// GetDashboard returns period counts.
// GET /api/dashboard
// Query params:
//   - start, end: YYYY-MM-DD inclusive bounds (optional)
//   - day: shorthand for start=end=day
//   - doctors: comma-separated doctor emails
//   - refresh: "true" forces a re-fetch
func (h *ConsoleHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	window, err := h.parseWindow(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		SnapshotInfo: info(snap),
		Counts:       h.engine.Counts(snap, window),
	})
}

// ListPatients returns the patient roll-up.
// GET /api/patients
// Query params: start, end, day, doctors, refresh as for the dashboard, plus
//   - q: name substring
//   - dob, email, phone: advanced search fields
func (h *ConsoleHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	window, err := h.parseWindow(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := aggregate.PatientQuery{
		DateOfBirth: q.Get("dob"),
		Email:       q.Get("email"),
		Phone:       q.Get("phone"),
	}
	roster := aggregate.SearchPatients(h.engine.Roster(snap, window), q.Get("q"))
	roster = aggregate.AdvancedSearch(roster, query, func(p aggregate.EnrichedPatient) records.Patient { return p.Patient })

	patients := make([]PatientView, 0, len(roster))
	for _, p := range roster {
		patients = append(patients, PatientView{
			EnrichedPatient: p,
			InsuranceID:     aggregate.MaskInsuranceID(p.InsuranceID),
		})
	}
	writeJSON(w, http.StatusOK, PatientsResponse{
		SnapshotInfo: info(snap),
		Window:       window,
		Patients:     patients,
	})
}

// ListAppointments returns the scoped appointments with status categories.
// GET /api/appointments
func (h *ConsoleHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AppointmentsResponse{
		SnapshotInfo: info(snap),
		Appointments: h.engine.Classify(snap),
	})
}

// GetWorkload returns the viewer's weekly workload.
// GET /api/workload
func (h *ConsoleHandler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Workload(r.Context(), snap))
}

// GetTimeline returns today's provider timeline.
// GET /api/timeline
func (h *ConsoleHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Timeline(snap))
}

// GetCalendar returns calendar events.
// GET /api/calendar?doctors=a@x,b@y
func (h *ConsoleHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": h.engine.Calendar(snap),
	})
}

// ListDoctors returns the directory entries visible to the viewer.
// GET /api/doctors
func (h *ConsoleHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	doctors := snap.Doctors
	if doctors == nil {
		doctors = []sources.Doctor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doctors": doctors,
	})
}

// Refresh forces a re-fetch for the viewer.
// POST /api/refresh
func (h *ConsoleHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	v, ok := tenancy.ViewerFromContext(r.Context())
	if !ok {
		jsonError(w, "viewer required", http.StatusUnauthorized)
		return
	}
	snap := h.engine.Refresh(r.Context(), v, parseList(r.URL.Query()["doctors"]))
	h.logger.Info("snapshot refreshed", "viewer", v.Key(), "version", snap.Version, "appointments", len(snap.Appointments))
	writeJSON(w, http.StatusOK, info(snap))
}

// GetVerificationLatency summarizes gateway latency from the metrics registry.
// GET /api/ops/verification-latency
func (h *ConsoleHandler) GetVerificationLatency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.SnapshotVerificationLatency(h.gatherer))
}

func (h *ConsoleHandler) snapshot(w http.ResponseWriter, r *http.Request) (*reconcile.Snapshot, bool) {
	v, ok := tenancy.ViewerFromContext(r.Context())
	if !ok {
		jsonError(w, "viewer required", http.StatusUnauthorized)
		return nil, false
	}
	doctors := parseList(r.URL.Query()["doctors"])
	if strings.EqualFold(r.URL.Query().Get("refresh"), "true") {
		return h.engine.Refresh(r.Context(), v, doctors), true
	}
	return h.engine.Snapshot(r.Context(), v, doctors), true
}

var errInvertedWindow = errors.New("start must not be after end")

func (h *ConsoleHandler) parseWindow(r *http.Request) (aggregate.Window, error) {
	q := r.URL.Query()
	now := h.engine.Clock().Now()
	loc := h.engine.Location()

	if day := strings.TrimSpace(q.Get("day")); day != "" {
		d, err := status.ParseDay(day, now, loc)
		if err != nil {
			return aggregate.Window{}, err
		}
		return aggregate.Day(d), nil
	}

	var window aggregate.Window
	if s := strings.TrimSpace(q.Get("start")); s != "" {
		d, err := status.ParseDay(s, now, loc)
		if err != nil {
			return aggregate.Window{}, err
		}
		window.Start = &d
	}
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		d, err := status.ParseDay(s, now, loc)
		if err != nil {
			return aggregate.Window{}, err
		}
		window.End = &d
	}
	if window.Start != nil && window.End != nil && window.End.Before(*window.Start) {
		return aggregate.Window{}, errInvertedWindow
	}
	return window, nil
}

func info(snap *reconcile.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:                   snap.ID,
		Version:              snap.Version,
		FetchedAt:            snap.FetchedAt,
		Viewer:               snap.Viewer,
		VerificationDegraded: snap.VerificationDegraded,
	}
}

// parseList splits repeated and comma-separated query values.
func parseList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
