package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollpass_bookings_created_total",
			Help: "Total number of bookings created",
		},
		[]string{"type"},
	)

	BookingsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tollpass_bookings_cancelled_total",
			Help: "Total number of bookings cancelled by drivers",
		},
	)

	SweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tollpass_sweep_runs_total",
			Help: "Total number of expiry sweep runs",
		},
	)

	BookingsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tollpass_bookings_expired_total",
			Help: "Total number of bookings transitioned to completed by the sweep",
		},
	)

	AdjudicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tollpass_adjudications_total",
			Help: "Total number of admin adjudications applied",
		},
		[]string{"action"},
	)

	TopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tollpass_account_topups_total",
			Help: "Total number of account top-ups",
		},
	)

	ReceiptPublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tollpass_receipt_publish_failures_total",
			Help: "Total number of receipt events that failed to publish",
		},
	)
)
