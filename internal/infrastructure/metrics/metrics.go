package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the engine's four hot paths: admission,
// payment confirmation, escrow release and dispute resolution.
type SettlementMetrics struct {
	ReservationsTotal       prometheus.CounterVec
	ReservationsRejected    prometheus.CounterVec
	ReservationsExpired     prometheus.Counter
	PoolsFilledTotal        prometheus.Counter
	PaymentsConfirmedTotal  prometheus.CounterVec
	PaymentsConfirmedAmount prometheus.CounterVec
	PaymentsFailedTotal     prometheus.CounterVec
	EscrowHeldAmount        prometheus.Counter
	EscrowReleasedTotal     prometheus.Counter
	EscrowReleasedAmount    prometheus.Counter
	ReleaseBlockedTotal     prometheus.CounterVec
	DisputesOpenedTotal     prometheus.Counter
	DisputesResolvedTotal   prometheus.CounterVec
	ConfirmDuration         prometheus.HistogramVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		ReservationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_reservations_total",
				Help: "Slot reservations accepted",
			},
			[]string{"pool_id"},
		),
		ReservationsRejected: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_reservations_rejected_total",
				Help: "Slot reservations rejected, by reason",
			},
			[]string{"reason"},
		),
		ReservationsExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pool_reservations_expired_total",
				Help: "PENDING reservations cancelled by the reaper",
			},
		),
		PoolsFilledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pools_filled_total",
				Help: "Pools that reached full capacity",
			},
		),
		PaymentsConfirmedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_confirmed_total",
				Help: "Confirmed payments, by method",
			},
			[]string{"method"},
		),
		PaymentsConfirmedAmount: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_confirmed_amount_total",
				Help: "Confirmed payment volume in minor units",
			},
			[]string{"method"},
		),
		PaymentsFailedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_failed_total",
				Help: "Failed payment confirmations, by reason",
			},
			[]string{"reason"},
		),
		EscrowHeldAmount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_held_amount_total",
				Help: "Funds moved into escrow, minor units",
			},
		),
		EscrowReleasedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_released_total",
				Help: "Escrow releases to vendors",
			},
		),
		EscrowReleasedAmount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_released_amount_total",
				Help: "Escrow volume released to vendors, minor units",
			},
		),
		ReleaseBlockedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_release_blocked_total",
				Help: "Release attempts rejected by the gate, by reason",
			},
			[]string{"reason"},
		),
		DisputesOpenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Disputes opened by buyers",
			},
		),
		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Disputes resolved, by action",
			},
			[]string{"action"},
		),
		ConfirmDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_confirm_duration_seconds",
				Help:    "Time spent in the confirmation transaction",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"outcome"},
		),
	}
}
