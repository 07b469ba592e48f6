package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters/histograms shared across the three binaries.
// Not every field is populated by every binary — cmd/notification, for
// instance, never touches OutboxPublished.
type Metrics struct {
	OrdersCreated   prometheus.Counter
	OutboxPending   *prometheus.GaugeVec
	OutboxPublished *prometheus.CounterVec
	OutboxRetries   *prometheus.CounterVec

	InboxProcessed *prometheus.CounterVec

	LedgerDebits  *prometheus.CounterVec
	LedgerCredits prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CircuitBreakerState *prometheus.GaugeVec

	WSActiveSessions      prometheus.Gauge
	WSNotificationsSent   *prometheus.CounterVec
	WSNotificationsDropped prometheus.Counter
}

// NewMetrics registers all collectors against reg (DefaultRegisterer if nil).
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_created_total", Help: "Total orders created.",
		}),
		OutboxPending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "outbox_pending", Help: "Outbox rows currently pending.",
		}, []string{"event_type"}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "outbox_published_total", Help: "Outbox rows published to the broker.",
		}, []string{"event_type"}),
		OutboxRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "outbox_publish_retries_total", Help: "Publish attempts that failed and left the row pending.",
		}, []string{"event_type"}),
		InboxProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "inbox_processed_total", Help: "Inbox events processed, by outcome.",
		}, []string{"outcome"}),
		LedgerDebits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ledger_debits_total", Help: "Ledger debit attempts, by outcome.",
		}, []string{"outcome"}),
		LedgerCredits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ledger_credits_total", Help: "Deposits applied.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "circuit_breaker_state", Help: "0=closed 1=half-open 2=open.",
		}, []string{"name"}),
		WSActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ws_active_sessions", Help: "Currently connected WebSocket sessions.",
		}),
		WSNotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "ws_notifications_sent_total", Help: "Notifications written to a session.",
		}, []string{"status"}),
		WSNotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ws_notifications_dropped_total", Help: "PaymentResults discarded for lack of a subscriber.",
		}),
	}

	factory.MustRegister(
		m.OrdersCreated, m.OutboxPending, m.OutboxPublished, m.OutboxRetries,
		m.InboxProcessed, m.LedgerDebits, m.LedgerCredits,
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.CircuitBreakerState,
		m.WSActiveSessions, m.WSNotificationsSent, m.WSNotificationsDropped,
	)
	return m
}
