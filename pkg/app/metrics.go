package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fast_note_board"

var (
	hubPeers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "realtime",
		Name:      "peers",
		Help:      "Live realtime connections joined to the hub.",
	})

	hubBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "realtime",
		Name:      "broadcasts_total",
		Help:      "Broadcast calls handled by the hub.",
	})

	hubDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "realtime",
		Name:      "deliveries_total",
		Help:      "Per peer broadcast writes by result.",
	}, []string{"result"})

	wsMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "realtime",
		Name:      "messages_total",
		Help:      "Inbound realtime messages by type and result.",
	}, []string{"type", "result"})
)
