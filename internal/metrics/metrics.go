package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the console's Prometheus metrics
type Metrics struct {
	// Remote API call metrics
	APICalls   *prometheus.CounterVec
	APILatency *prometheus.HistogramVec

	// System status probes
	ProbeOnline  *prometheus.GaugeVec
	ProbeLatency *prometheus.GaugeVec

	// Session lifecycle
	SessionClears *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		APICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_api_calls_total",
				Help: "Total number of remote API calls",
			},
			[]string{"endpoint", "outcome"},
		),
		APILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_api_latency_seconds",
				Help:    "Remote API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),
		ProbeOnline: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nexus_probe_online",
				Help: "1 when the last probe of the named service classified it online",
			},
			[]string{"service"},
		),
		ProbeLatency: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nexus_probe_latency_milliseconds",
				Help: "Round-trip latency of the last probe of the named service",
			},
			[]string{"service"},
		),
		SessionClears: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_session_clears_total",
				Help: "Sessions removed from storage, by reason",
			},
			[]string{"reason"},
		),
	}
}

// Nop returns metrics bound to a private registry, for callers that do not export them.
func Nop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// RecordAPICall records the outcome and latency of one remote call.
func (m *Metrics) RecordAPICall(endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.APICalls.WithLabelValues(endpoint, outcome).Inc()
	m.APILatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordProbe records the classification of one status probe.
func (m *Metrics) RecordProbe(service string, online bool, latencyMs int64) {
	if m == nil {
		return
	}
	v := 0.0
	if online {
		v = 1
	}
	m.ProbeOnline.WithLabelValues(service).Set(v)
	m.ProbeLatency.WithLabelValues(service).Set(float64(latencyMs))
}

// RecordSessionClear counts one session removal.
func (m *Metrics) RecordSessionClear(reason string) {
	if m == nil {
		return
	}
	m.SessionClears.WithLabelValues(reason).Inc()
}
