package state

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// Prometheus Metrics for client and session state
// ============================================================================

// StateMetrics provides Prometheus metrics for the client registry and the
// session cache. All methods are nil-safe: calls on a nil *StateMetrics are
// no-ops.
type StateMetrics struct {
	// ClientsActive tracks the number of registered clients.
	ClientsActive prometheus.Gauge

	// ClientsCreated counts clients ever registered.
	ClientsCreated prometheus.Counter

	// ClientsRemoved counts removed clients. Reason values:
	// "explicit", "no_sessions".
	ClientsRemoved *prometheus.CounterVec

	// SessionsActive tracks sessions currently linked to a client.
	SessionsActive prometheus.Gauge

	// SessionsCreated counts sessions accepted by AddSession.
	SessionsCreated prometheus.Counter

	// SessionsDestroyed counts sessions leaving the cache. Reason values:
	// "client_request", "client_removed", "expired".
	SessionsDestroyed *prometheus.CounterVec

	// SessionDuration observes session lifetimes in seconds.
	SessionDuration prometheus.Histogram

	// LeaseRenewals counts UpdateClientLeaseTime outcomes by NFS4 status.
	LeaseRenewals *prometheus.CounterVec
}

// NewStateMetrics creates and registers state metrics with reg. If reg is
// nil, metrics are created but not registered (useful for testing).
func NewStateMetrics(reg prometheus.Registerer) *StateMetrics {
	const ns, sub = "nfs4state", "state"

	m := &StateMetrics{
		ClientsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "clients_active",
			Help: "Current number of registered NFSv4 clients",
		}),
		ClientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "clients_created_total",
			Help: "Total number of NFSv4 clients registered",
		}),
		ClientsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "clients_removed_total",
			Help: "Total number of NFSv4 clients removed",
		}, []string{"reason"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sessions_active",
			Help: "Current number of live NFSv4.1 sessions",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sessions_created_total",
			Help: "Total number of NFSv4.1 sessions created",
		}),
		SessionsDestroyed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "sessions_destroyed_total",
			Help: "Total number of NFSv4.1 sessions destroyed",
		}, []string{"reason"}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "session_duration_seconds",
			Help:    "Lifetime of NFSv4.1 sessions in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 20), // 1s to ~145 hours
		}),
		LeaseRenewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "lease_renewals_total",
			Help: "Lease renewals through a stateid, by resulting status",
		}, []string{"status"}),
	}

	if reg != nil {
		m.ClientsActive = registerOrReuse(reg, m.ClientsActive).(prometheus.Gauge)
		m.ClientsCreated = registerOrReuse(reg, m.ClientsCreated).(prometheus.Counter)
		m.ClientsRemoved = registerOrReuse(reg, m.ClientsRemoved).(*prometheus.CounterVec)
		m.SessionsActive = registerOrReuse(reg, m.SessionsActive).(prometheus.Gauge)
		m.SessionsCreated = registerOrReuse(reg, m.SessionsCreated).(prometheus.Counter)
		m.SessionsDestroyed = registerOrReuse(reg, m.SessionsDestroyed).(*prometheus.CounterVec)
		m.SessionDuration = registerOrReuse(reg, m.SessionDuration).(prometheus.Histogram)
		m.LeaseRenewals = registerOrReuse(reg, m.LeaseRenewals).(*prometheus.CounterVec)
	}

	return m
}

// registerOrReuse registers a collector with the given registerer.
// If the collector is already registered, it returns the existing one
// so that metrics keep being exported after a handler restart.
// Panics on any other registration failure.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func (m *StateMetrics) clientCreated() {
	if m == nil {
		return
	}
	m.ClientsCreated.Inc()
	m.ClientsActive.Inc()
}

func (m *StateMetrics) clientRemoved(reason string) {
	if m == nil {
		return
	}
	m.ClientsRemoved.WithLabelValues(reason).Inc()
	m.ClientsActive.Dec()
}

func (m *StateMetrics) sessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
	m.SessionsActive.Inc()
}

func (m *StateMetrics) sessionDestroyed(reason string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.SessionsDestroyed.WithLabelValues(reason).Inc()
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
}

func (m *StateMetrics) leaseRenewal(status string) {
	if m == nil {
		return
	}
	m.LeaseRenewals.WithLabelValues(status).Inc()
}
