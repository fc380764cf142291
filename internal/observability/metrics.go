package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RosterMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skate_roster_mutations_total",
			Help: "Roster mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	WithdrawalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skate_withdrawals_total",
			Help: "Skater withdrawals processed",
		},
	)

	EntitlementsGrantedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skate_replacement_entitlements_granted_total",
			Help: "Replacement entitlements created by withdrawals",
		},
	)

	ReplacementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skate_replacements_total",
			Help: "Replacement swaps by outcome",
		},
		[]string{"outcome"},
	)

	ResultRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skate_result_rows_total",
			Help: "Imported result rows by outcome",
		},
		[]string{"outcome"},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skate_aggregation_duration_seconds",
			Help:    "Duration of the season aggregation cascade",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skate_notifications_total",
			Help: "Notification deliveries by outcome",
		},
		[]string{"outcome"},
	)

	CircuitTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skate_circuit_breaker_transitions_total",
			Help: "Circuit breaker state changes by dependency and target state",
		},
		[]string{"breaker", "to"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

