// Package metrics holds the Prometheus instruments of one gossip server.
// Each server gets its own handle and registry so several servers can run in
// one process and tests can read counters in isolation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rumormill"

// Metrics is the set of instruments threaded through the server and its loops.
type Metrics struct {
	Registry *prometheus.Registry

	SwimSent          *prometheus.CounterVec
	SwimReceived      *prometheus.CounterVec
	RumorsSent        *prometheus.CounterVec
	RumorsReceived    *prometheus.CounterVec
	Dropped           *prometheus.CounterVec
	HealthTransitions *prometheus.CounterVec
	Members           *prometheus.GaugeVec
	Elections         *prometheus.CounterVec
	ProbeRoundTrip    prometheus.Histogram
	PushRounds        prometheus.Counter
}

// New creates a handle with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		SwimSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "swim",
				Name:      "messages_sent_total",
				Help:      "SWIM messages sent, by message type.",
			},
			[]string{"type"},
		),
		SwimReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "swim",
				Name:      "messages_received_total",
				Help:      "SWIM messages received, by message type.",
			},
			[]string{"type"},
		),
		RumorsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gossip",
				Name:      "rumors_sent_total",
				Help:      "Rumors sent, by rumor kind.",
			},
			[]string{"kind"},
		),
		RumorsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gossip",
				Name:      "rumors_received_total",
				Help:      "Rumors received, by rumor kind.",
			},
			[]string{"kind"},
		),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datagrams_dropped_total",
				Help:      "Datagrams or rumors dropped, by reason.",
			},
			[]string{"reason"},
		),
		HealthTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "members",
				Name:      "health_transitions_total",
				Help:      "Health changes applied by the local failure detector, by new health.",
			},
			[]string{"health"},
		),
		Members: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "members",
				Name:      "count",
				Help:      "Known members, by health.",
			},
			[]string{"health"},
		),
		Elections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "elections",
				Name:      "events_total",
				Help:      "Election events, by purpose and event.",
			},
			[]string{"purpose", "event"},
		),
		ProbeRoundTrip: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "swim",
				Name:      "probe_round_trip_seconds",
				Help:      "Time from ping to ack for direct probes.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 13),
			},
		),
		PushRounds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gossip",
				Name:      "push_rounds_total",
				Help:      "Anti-entropy push rounds that sent at least one rumor.",
			},
		),
	}

	m.Registry.MustRegister(
		m.SwimSent, m.SwimReceived,
		m.RumorsSent, m.RumorsReceived,
		m.Dropped, m.HealthTransitions, m.Members,
		m.Elections, m.ProbeRoundTrip, m.PushRounds,
	)
	return m
}

// WithProcessCollectors adds the Go runtime and process collectors, for the
// daemon's registry only.
func (m *Metrics) WithProcessCollectors() *Metrics {
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveProbe records a probe round trip.
func (m *Metrics) ObserveProbe(d time.Duration) {
	m.ProbeRoundTrip.Observe(d.Seconds())
}

// Handler exposes the registry. Mount it with r.Handle("/metrics", m.Handler()).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
