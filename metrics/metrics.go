package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for lead submissions.
type RelayMetrics struct {
	submissionsTotal *prometheus.CounterVec
	sendLatency      *prometheus.HistogramVec
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lead_relay",
			Subsystem: "relay",
			Name:      "submissions_total",
			Help:      "Lead submissions by form and outcome",
		}, []string{"form", "outcome"}),
		sendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lead_relay",
			Subsystem: "mail",
			Name:      "send_duration_seconds",
			Help:      "Latency of mail transport hand-off",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.sendLatency)
	return m
}

func (m *RelayMetrics) ObserveSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form, outcome).Inc()
}

func (m *RelayMetrics) ObserveSend(provider string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.sendLatency.WithLabelValues(provider, status).Observe(seconds)
}
