package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder observes payroll calculations.
type Recorder interface {
	ObserveCalculation(kind string, saved bool, elapsed time.Duration, err error)
}

type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New registers the collectors on a private registry so tests can build
// as many instances as they need.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "calculations_total",
			Help:      "Payroll calculations by kind and whether a payslip was saved.",
		}, []string{"kind", "saved"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "calculation_failures_total",
			Help:      "Payroll calculations that returned an error.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "payroll",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent computing a payroll calculation, storage included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.calculations,
		m.failures,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveCalculation(kind string, saved bool, elapsed time.Duration, err error) {
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(kind).Inc()
		return
	}
	savedLabel := "false"
	if saved {
		savedLabel = "true"
	}
	m.calculations.WithLabelValues(kind, savedLabel).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveCalculation(string, bool, time.Duration, error) {}
