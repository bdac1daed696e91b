package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volpz_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Connection metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "volpz_active_connections",
			Help: "Currently connected websocket clients",
		},
	)

	// Business metrics
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volpz_logins_total",
			Help: "Total login attempts",
		},
		[]string{"result"}, // "success" or "failure"
	)

	AccountsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "volpz_accounts_registered_total",
			Help: "Total accounts registered",
		},
	)

	MessagesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volpz_messages_relayed_total",
			Help: "Total chat messages relayed",
		},
		[]string{"kind"}, // "direct" or "group"
	)

	GroupsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "volpz_groups_created_total",
			Help: "Total groups created",
		},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volpz_events_dropped_total",
			Help: "Outbound events dropped instead of delivered",
		},
		[]string{"reason"}, // "offline" or "backpressure"
	)

	MalformedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "volpz_malformed_frames_total",
			Help: "Inbound frames discarded as unparseable",
		},
	)
)
