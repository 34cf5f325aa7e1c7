// Package metrics holds the Prometheus collectors for console traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is passed to the components that record console activity.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	PoolOpenDuration  prometheus.Histogram
	PoolOpenFailures  *prometheus.CounterVec
	ReplicaReloads    *prometheus.CounterVec
	BackendsReachable prometheus.Gauge
	BackendsTotal     prometheus.Gauge
}

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OperationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jasmin_api",
				Name:      "operations_total",
				Help:      "Console operations by resource and outcome kind",
			},
			[]string{"resource", "outcome"},
		),
		PoolOpenDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "jasmin_api",
				Name:      "pool_open_duration_seconds",
				Help:      "Time to log into every console of a request pool",
				Buckets:   prometheus.DefBuckets,
			},
		),
		PoolOpenFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jasmin_api",
				Name:      "pool_open_failures_total",
				Help:      "Requests that could not reach any console",
			},
			[]string{"kind"},
		),
		ReplicaReloads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jasmin_api",
				Name:      "replica_reloads_total",
				Help:      "Replica configuration reloads after a mutation",
			},
			[]string{"result"}, // ok/failed
		),
		BackendsReachable: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jasmin_api",
				Name:      "backends_reachable",
				Help:      "Consoles that accepted a login in the last probe",
			},
		),
		BackendsTotal: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jasmin_api",
				Name:      "backends_total",
				Help:      "Consoles resolved in the last probe",
			},
		),
	}
}
