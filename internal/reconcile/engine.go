package reconcile

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/wolfman30/clinic-console/internal/matching"
	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/internal/records"
	"github.com/wolfman30/clinic-console/internal/sources"
	"github.com/wolfman30/clinic-console/internal/status"
	"github.com/wolfman30/clinic-console/internal/tenancy"
	"github.com/wolfman30/clinic-console/internal/verification"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

const defaultMaxAge = 30 * time.Second

// Config wires the engine's collaborators.
type Config struct {
	Fetcher  *sources.Fetcher
	Gateway  verification.Gateway
	Clock    status.Clock
	Location *time.Location
	// MaxAge is how long a snapshot is served before Snapshot refreshes it.
	MaxAge  time.Duration
	Logger  *logging.Logger
	Metrics *metrics.ReconcileMetrics
}

// Engine produces and caches snapshots for viewers.
type Engine struct {
	fetcher *sources.Fetcher
	gateway verification.Gateway
	clock   status.Clock
	loc     *time.Location
	maxAge  time.Duration
	store   *Store
	gens    *Generations
	logger  *logging.Logger
	metrics *metrics.ReconcileMetrics
}

func NewEngine(cfg Config) *Engine {
	if cfg.Fetcher == nil {
		panic("reconcile: fetcher required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = status.SystemClock{}
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		fetcher: cfg.Fetcher,
		gateway: cfg.Gateway,
		clock:   clock,
		loc:     loc,
		maxAge:  maxAge,
		store:   NewStore(),
		gens:    NewGenerations(),
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

func (e *Engine) Clock() status.Clock { return e.clock }

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Gateway() verification.Gateway { return e.gateway }

func (e *Engine) Store() *Store { return e.store }

// Snapshot returns the current snapshot for v and doctorFilter, refreshing it
// when it is missing or older than MaxAge. Each filter has its own slot.
func (e *Engine) Snapshot(ctx context.Context, v tenancy.Viewer, doctorFilter []string) *Snapshot {
	filter := scopeFilter(v, doctorFilter)
	if snap := e.store.Get(SnapshotKey(v, filter)); snap != nil &&
		e.clock.Now().Sub(snap.FetchedAt) < e.maxAge {
		return snap
	}
	return e.Refresh(ctx, v, filter)
}

// Refresh runs the whole pipeline for v and doctorFilter. If another refresh
// for the same viewer and filter begins before this one finishes, this result
// is not published; the caller gets the newer published snapshot when there
// is one, otherwise its own result.
func (e *Engine) Refresh(ctx context.Context, v tenancy.Viewer, doctorFilter []string) *Snapshot {
	filter := scopeFilter(v, doctorFilter)
	key := SnapshotKey(v, filter)
	gen := e.gens.Begin(key)

	bundle := e.fetcher.Fetch(ctx, v, filter)
	snap := e.build(ctx, v, filter, bundle)

	if !e.gens.IsCurrent(key, gen) {
		e.metrics.ObserveStaleDiscarded()
		e.logger.Debug("discarding superseded refresh", "snapshot", key, "generation", gen)
		if latest := e.store.Get(key); latest != nil && !latest.FetchedAt.Before(snap.FetchedAt) {
			return latest
		}
		return snap
	}
	return e.store.Put(key, snap)
}

func (e *Engine) build(ctx context.Context, v tenancy.Viewer, filter []string, b sources.Bundle) *Snapshot {
	appts := tenancy.Filter(v.Clinic, b.Appointments, func(a records.Appointment) string { return a.ClinicName })
	patients := tenancy.Filter(v.Clinic, b.Patients, func(p records.Patient) string { return p.ClinicName })
	doctors := tenancy.Filter(v.Clinic, b.Doctors, func(d sources.Doctor) string { return d.ClinicName })
	e.metrics.ObserveHidden("appointment", len(b.Appointments)-len(appts))
	e.metrics.ObserveHidden("patient", len(b.Patients)-len(patients))

	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.AppointmentID)
	}
	res := verification.SafeCheck(ctx, e.gateway, ids)
	idx := matching.NewIndex(patients)
	e.logger.Debug("snapshot built",
		"viewer", v.Key(),
		"appointments", len(appts),
		"patients", idx.Len(),
		"verified", len(res.Found),
		"degraded", res.Degraded,
	)

	return &Snapshot{
		Viewer:               v,
		DoctorFilter:         filter,
		FetchedAt:            e.clock.Now(),
		Appointments:         appts,
		Patients:             patients,
		Doctors:              doctors,
		Index:                idx,
		Verified:             res.Set(),
		VerificationDegraded: res.Degraded,
	}
}

func normalizeFilter(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// scopeFilter drops the doctor filter for clinic viewers, whose fetch and
// scope are the whole clinic.
func scopeFilter(v tenancy.Viewer, emails []string) []string {
	if strings.TrimSpace(v.Clinic) != "" {
		return []string{}
	}
	return normalizeFilter(emails)
}
