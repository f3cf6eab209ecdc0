package session

import "github.com/prometheus/client_golang/prometheus"

// Backend roles, also used as metric label values.
const (
	rolePrimary   = "primary"
	roleSecondary = "secondary"
	roleNone      = "none"
)

// Metrics counts how session values are served. A nil *Metrics records nothing.
type Metrics struct {
	reads   *prometheus.CounterVec
	corrupt *prometheus.CounterVec
	writes  *prometheus.CounterVec
}

// NewMetrics creates the session metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masomo",
			Subsystem: "session",
			Name:      "reads_total",
			Help:      "Session reads by the backend that served them (primary, secondary or none)",
		}, []string{"backend"}),
		corrupt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masomo",
			Subsystem: "session",
			Name:      "corrupt_entries_total",
			Help:      "Session entries found but not decodable, treated as absent",
		}, []string{"backend"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masomo",
			Subsystem: "session",
			Name:      "writes_total",
			Help:      "Successful session writes (and removals) per backend",
		}, []string{"backend"}),
	}
	reg.MustRegister(m.reads, m.corrupt, m.writes)
	return m
}

func (m *Metrics) served(role string) {
	if m != nil {
		m.reads.WithLabelValues(role).Inc()
	}
}

func (m *Metrics) corrupted(role string) {
	if m != nil {
		m.corrupt.WithLabelValues(role).Inc()
	}
}

func (m *Metrics) written(role string) {
	if m != nil {
		m.writes.WithLabelValues(role).Inc()
	}
}
