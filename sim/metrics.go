package sim

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes failure/repair activity as Prometheus collectors. All
// methods are safe on a nil receiver, so runs may go without metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	FailuresTotal    prometheus.Counter
	RepairsTotal     prometheus.Counter
	RebuildsTotal    prometheus.Counter
	RunsTotal        prometheus.Counter
	OfflineAtFailure prometheus.Histogram
}

// NewMetrics registers the simulation metrics against reg, or the default
// registerer when reg is nil. Registering twice on the same registry reuses
// the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	failures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "senere_sensor_failures_total",
		Help: "Sensor failures handled across all runs.",
	}), "senere_sensor_failures_total")
	if err != nil {
		return nil, err
	}
	repairs, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "senere_sensor_repairs_total",
		Help: "Sensor repairs completed across all runs.",
	}), "senere_sensor_repairs_total")
	if err != nil {
		return nil, err
	}
	rebuilds, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "senere_routing_rebuilds_total",
		Help: "Routing table rebuilds triggered by failures and repairs.",
	}), "senere_routing_rebuilds_total")
	if err != nil {
		return nil, err
	}
	runs, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "senere_runs_total",
		Help: "Independent simulation runs completed.",
	}), "senere_runs_total")
	if err != nil {
		return nil, err
	}
	offline, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "senere_offline_sensors_at_failure",
		Help:    "Number of offline sensors observed right after a failure.",
		Buckets: prometheus.LinearBuckets(0, 1, 16),
	}), "senere_offline_sensors_at_failure")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:         gatherer,
		FailuresTotal:    failures,
		RepairsTotal:     repairs,
		RebuildsTotal:    rebuilds,
		RunsTotal:        runs,
		OfflineAtFailure: offline,
	}, nil
}

// Gatherer returns the gatherer the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

func (m *Metrics) incFailures() {
	if m != nil {
		m.FailuresTotal.Inc()
	}
}

func (m *Metrics) incRepairs() {
	if m != nil {
		m.RepairsTotal.Inc()
	}
}

func (m *Metrics) incRebuilds() {
	if m != nil {
		m.RebuildsTotal.Inc()
	}
}

func (m *Metrics) incRuns() {
	if m != nil {
		m.RunsTotal.Inc()
	}
}

func (m *Metrics) observeOffline(n int) {
	if m != nil {
		m.OfflineAtFailure.Observe(float64(n))
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
