package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReconcileMetrics exposes counters/histograms for the reconciliation pipeline.
type ReconcileMetrics struct {
	normalizedTotal     *prometheus.CounterVec
	hiddenTotal         *prometheus.CounterVec
	matchTotal          *prometheus.CounterVec
	classifiedTotal     *prometheus.CounterVec
	verificationTotal   *prometheus.CounterVec
	verificationLatency *prometheus.HistogramVec
	sourceFailures      *prometheus.CounterVec
	staleDiscarded      prometheus.Counter
}

func NewReconcileMetrics(reg prometheus.Registerer) *ReconcileMetrics {
	m := &ReconcileMetrics{
		normalizedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "records",
			Name:      "normalized_total",
			Help:      "Records normalized, by kind",
		}, []string{"kind"}),
		hiddenTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "records",
			Name:      "tenant_hidden_total",
			Help:      "Records hidden by tenant isolation, by kind",
		}, []string{"kind"}),
		matchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "matching",
			Name:      "match_total",
			Help:      "Appointment to patient matches, by winning strategy",
		}, []string{"strategy"}),
		classifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "status",
			Name:      "classified_total",
			Help:      "Appointments classified, by category",
		}, []string{"category"}),
		verificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "verification",
			Name:      "requests_total",
			Help:      "Verification gateway batches, by outcome",
		}, []string{"outcome"}),
		verificationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic_console",
			Subsystem: "verification",
			Name:      "latency_seconds",
			Help:      "Latency of verification gateway batches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "sources",
			Name:      "failures_total",
			Help:      "Upstream record fetch failures, by source",
		}, []string{"source"}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic_console",
			Subsystem: "reconcile",
			Name:      "stale_refresh_discarded_total",
			Help:      "Refresh results dropped because a newer refresh had started",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.normalizedTotal,
		m.hiddenTotal,
		m.matchTotal,
		m.classifiedTotal,
		m.verificationTotal,
		m.verificationLatency,
		m.sourceFailures,
		m.staleDiscarded,
	)
	return m
}

func (m *ReconcileMetrics) ObserveNormalized(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.normalizedTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *ReconcileMetrics) ObserveHidden(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.hiddenTotal.WithLabelValues(kind).Add(float64(n))
}

func (m *ReconcileMetrics) ObserveMatch(strategy string) {
	if m == nil {
		return
	}
	m.matchTotal.WithLabelValues(strategy).Inc()
}

func (m *ReconcileMetrics) ObserveClassified(category string) {
	if m == nil {
		return
	}
	m.classifiedTotal.WithLabelValues(category).Inc()
}

func (m *ReconcileMetrics) ObserveVerification(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.verificationTotal.WithLabelValues(outcome).Inc()
	m.verificationLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *ReconcileMetrics) ObserveSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

func (m *ReconcileMetrics) ObserveStaleDiscarded() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}
