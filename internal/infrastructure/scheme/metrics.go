package scheme

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts scheme requests. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	denied   *prometheus.CounterVec
}

// NewMetrics registers the scheme metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcshell",
			Subsystem: "scheme",
			Name:      "requests_total",
			Help:      "Custom scheme requests served, by scheme and status code.",
		}, []string{"scheme", "code"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcshell",
			Subsystem: "scheme",
			Name:      "denied_total",
			Help:      "Custom scheme requests denied because of the requesting webview.",
		}, []string{"scheme"}),
	}
	reg.MustRegister(m.requests, m.denied)
	return m
}

func (m *Metrics) observe(scheme string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(scheme, strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeDenied(scheme string) {
	if m == nil {
		return
	}
	m.denied.WithLabelValues(scheme).Inc()
}
