package availability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "breus"

// Metrics holds the collectors for availability checking.
//
// Collectors are always created so callers never need nil checks; they are
// only exported when a registerer is supplied.
type Metrics struct {
	RunsStarted   prometheus.Counter
	RunsCancelled prometheus.Counter
	RunsPublished prometheus.Counter
	RunsFailed    prometheus.Counter
	RunDuration   prometheus.Histogram

	ProbesIssued  prometheus.Counter
	ProbeFailures prometheus.Counter

	PersonnelScans        prometheus.Counter
	PersonnelScanFailures prometheus.Counter
}

// NewMetrics creates the availability collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "runs_started_total",
			Help:      "Check runs started (before debounce).",
		}),
		RunsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "runs_cancelled_total",
			Help:      "Check runs superseded before publishing.",
		}),
		RunsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "runs_published_total",
			Help:      "Check runs that replaced the published status map.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "runs_failed_total",
			Help:      "Check runs that hit an orchestration error and published an empty map.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "run_duration_seconds",
			Help:      "Time from debounce expiry to publish.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		ProbesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "probes_total",
			Help:      "Single-resource availability probes issued.",
		}),
		ProbeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "availability",
			Name:      "probe_failures_total",
			Help:      "Probes that failed and were reported as available.",
		}),
		PersonnelScans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "personnel",
			Name:      "scans_total",
			Help:      "Personnel conflict scans issued.",
		}),
		PersonnelScanFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "personnel",
			Name:      "scan_failures_total",
			Help:      "Personnel conflict scans that failed and returned no conflicts.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.RunsStarted,
			m.RunsCancelled,
			m.RunsPublished,
			m.RunsFailed,
			m.RunDuration,
			m.ProbesIssued,
			m.ProbeFailures,
			m.PersonnelScans,
			m.PersonnelScanFailures,
		)
	}

	return m
}
