// Package metrics holds the process-wide Prometheus registry and the HTTP
// server that exposes it.
//
// Metrics are optional. Components take a prometheus.Registerer (or a typed
// metrics struct built from one) and treat nil as "disabled", so running
// without InitRegistry costs nothing.
//
//	metrics.InitRegistry()
//	sm := state.NewStateMetrics(metrics.GetRegistry())
//	h, _ := state.NewStateHandler(state.WithMetrics(sm))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry with the Go
// runtime and process collectors. Subsequent calls are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registry = reg
	})
}

// GetRegistry returns the global registry, or nil if InitRegistry has not
// been called.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}
