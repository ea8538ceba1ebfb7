package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Coordinator metrics
	InvestmentsApproved prometheus.Counter
	LoansDecided        *prometheus.CounterVec
	FundsAdjusted       prometheus.Counter
	LedgerErrors        *prometheus.CounterVec

	// Accrual metrics
	AccrualCredited    *prometheus.CounterVec
	InvestmentsExpired prometheus.Counter
	AccrualFailures    prometheus.Counter
	AccrualDuration    prometheus.Histogram

	// Withdrawal metrics
	CodesIssued          prometheus.Counter
	CodeRedemptions      *prometheus.CounterVec
	WithdrawalsRequested prometheus.Counter

	// Retention metrics
	RetentionDeleted  *prometheus.CounterVec
	RetentionDuration prometheus.Histogram

	// Store metrics
	TransactionRetries *prometheus.CounterVec

	// Collaborator metrics
	NotificationFailures prometheus.Counter
	OutboxPublished      *prometheus.CounterVec
	OracleRequests       *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		InvestmentsApproved: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_investments_approved_total",
			Help: "Total number of investments moved to active",
		}),
		LoansDecided: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_loans_decided_total",
				Help: "Total loan decisions by outcome",
			},
			[]string{"decision"},
		),
		FundsAdjusted: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_funds_adjusted_total",
			Help: "Total administrative balance adjustments",
		}),
		LedgerErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_ledger_errors_total",
				Help: "Ledger operation failures by operation and kind",
			},
			[]string{"operation", "kind"},
		),

		AccrualCredited: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_accrual_credited_amount_total",
				Help: "Amount credited by the accrual engine",
			},
			[]string{"component"},
		),
		InvestmentsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_investments_expired_total",
			Help: "Total investments that reached their targets",
		}),
		AccrualFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_accrual_failures_total",
			Help: "Investments that failed to accrue in a run",
		}),
		AccrualDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintledger_accrual_run_duration_seconds",
			Help:    "Duration of full accrual runs",
			Buckets: prometheus.DefBuckets,
		}),

		CodesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_withdrawal_codes_issued_total",
			Help: "Total withdrawal codes issued",
		}),
		CodeRedemptions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_withdrawal_code_redemptions_total",
				Help: "Withdrawal code redemption attempts by result",
			},
			[]string{"result"},
		),
		WithdrawalsRequested: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_withdrawals_requested_total",
			Help: "Total withdrawal requests persisted",
		}),

		RetentionDeleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_retention_deleted_total",
				Help: "Records removed by the retention sweep",
			},
			[]string{"category"},
		),
		RetentionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintledger_retention_sweep_duration_seconds",
			Help:    "Duration of retention sweeps",
			Buckets: []float64{.05, .1, .5, 1, 5, 15, 60, 300},
		}),

		TransactionRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_transaction_retries_total",
				Help: "Transaction retries on store conflicts by outcome",
			},
			[]string{"outcome"},
		),

		NotificationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "mintledger_notification_failures_total",
			Help: "Notifications the sink failed to accept",
		}),
		OutboxPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_outbox_published_total",
				Help: "Outbox events relayed by result",
			},
			[]string{"result"},
		),
		OracleRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_price_oracle_requests_total",
				Help: "Price oracle lookups by source",
			},
			[]string{"source"},
		),

		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mintledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"route"},
		),
	}
}
