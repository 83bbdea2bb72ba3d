package telemetry

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "antmesh"

// Metrics exposes Prometheus collectors that report ant and colony activity.
type Metrics struct {
	decisions     *prometheus.CounterVec
	decideSeconds *prometheus.HistogramVec
	plans         *prometheus.CounterVec
	exchanges     *prometheus.CounterVec
	snapshotBytes prometheus.Histogram
	faults        prometheus.Counter
	delivered     prometheus.Counter
	ticks         prometheus.Counter
	roles         *prometheus.GaugeVec
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// Default returns the metrics registered with the global Prometheus registry.
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Registration errors other than AlreadyRegistered panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		decisions: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "decisions_total",
				Help:      "Actions chosen by ants, by role and action.",
			},
			[]string{"role", "action"},
		)),
		decideSeconds: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "decide_duration_seconds",
				Help:      "Time spent computing one tick's action.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"role"},
		)),
		plans: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "route_plans_total",
				Help:      "A* planning attempts, by purpose and result.",
			},
			[]string{"purpose", "result"},
		)),
		exchanges: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "exchanges_total",
				Help:      "Received snapshots, by merge outcome.",
			},
			[]string{"outcome"},
		)),
		snapshotBytes: register(reg, prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "snapshot_bytes",
				Help:      "Size of received snapshot payloads.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
		)),
		faults: register(reg, prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ant",
				Name:      "faults_total",
				Help:      "Ticks that failed internally and fell back to halt.",
			},
		)),
		delivered: register(reg, prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "colony",
				Name:      "food_delivered_total",
				Help:      "Food units delivered to the nest.",
			},
		)),
		ticks: register(reg, prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "colony",
				Name:      "ticks_total",
				Help:      "Simulation ticks completed.",
			},
		)),
		roles: register(reg, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "colony",
				Name:      "ants",
				Help:      "Ants per role.",
			},
			[]string{"role"},
		)),
	}
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

// RecordDecision counts an action and observes how long it took.
func (m *Metrics) RecordDecision(role, action string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(role, action).Inc()
	m.decideSeconds.WithLabelValues(role).Observe(elapsed.Seconds())
}

// RecordPlan counts a planning attempt.
func (m *Metrics) RecordPlan(purpose string, ok bool) {
	if m == nil {
		return
	}
	result := "found"
	if !ok {
		result = "no_route"
	}
	m.plans.WithLabelValues(purpose, result).Inc()
}

// RecordExchange counts a received snapshot. bytes is the payload size, or
// zero when the snapshot did not arrive over the wire.
func (m *Metrics) RecordExchange(outcome string, bytes int) {
	if m == nil {
		return
	}
	m.exchanges.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		m.snapshotBytes.Observe(float64(bytes))
	}
}

// RecordFault counts a tick that fell back to halt.
func (m *Metrics) RecordFault() {
	if m == nil {
		return
	}
	m.faults.Inc()
}

// AddDelivered adds food units that reached the nest.
func (m *Metrics) AddDelivered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.delivered.Add(float64(n))
}

// IncTick marks a completed tick.
func (m *Metrics) IncTick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}

// SetRoleCount sets the census gauge of a role.
func (m *Metrics) SetRoleCount(role string, n int) {
	if m == nil {
		return
	}
	m.roles.WithLabelValues(role).Set(float64(n))
}
