package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the ledger's Prometheus metrics. It implements
// usecase.Metrics.
type Metrics struct {
	// Posting metrics
	TransactionsPosted   prometheus.Counter
	TransactionsReplayed prometheus.Counter
	TransactionErrors    *prometheus.CounterVec
	PostingDuration      prometheus.Histogram
	EntriesPerPosting    prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsPosted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_posted_total",
			Help: "Total number of transactions posted",
		}),
		TransactionsReplayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_replayed_total",
			Help: "Total number of posting requests answered with an already stored transaction",
		}),
		TransactionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transaction_errors_total",
				Help: "Total number of rejected or rolled back postings by reason",
			},
			[]string{"reason"},
		),
		PostingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posting_duration_seconds",
			Help:    "Duration of successful postings",
			Buckets: prometheus.DefBuckets,
		}),
		EntriesPerPosting: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_posting_entries",
			Help:    "Number of entries per posted transaction",
			Buckets: []float64{2, 3, 4, 8, 16, 64, 256, 1000},
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_outbox_errors_total",
			Help: "Total number of outbox events that failed to publish",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// TransactionPosted records a fresh posting.
func (m *Metrics) TransactionPosted(entries int, duration time.Duration) {
	m.TransactionsPosted.Inc()
	m.EntriesPerPosting.Observe(float64(entries))
	m.PostingDuration.Observe(duration.Seconds())
}

// TransactionReplayed records an idempotent replay.
func (m *Metrics) TransactionReplayed() {
	m.TransactionsReplayed.Inc()
}

// TransactionFailed records a failed posting.
func (m *Metrics) TransactionFailed(reason string) {
	m.TransactionErrors.WithLabelValues(reason).Inc()
}

// AccountCreated records an inserted account.
func (m *Metrics) AccountCreated() {
	m.AccountsCreated.Inc()
}

// EventPublished records the outcome of publishing one outbox event.
func (m *Metrics) EventPublished(err error) {
	if err != nil {
		m.OutboxErrors.Inc()
		return
	}
	m.OutboxPublished.Inc()
}

// RateLimited records a request rejected by the rate limiter.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
