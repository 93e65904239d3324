package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics holds the payment service collectors.
type PaymentMetrics struct {
	// order initiation
	OrdersCreatedTotal       *prometheus.CounterVec
	OrdersCreatedAmountTotal *prometheus.CounterVec
	OrderCreationFailedTotal *prometheus.CounterVec
	OrphanedOrdersTotal      prometheus.Counter
	GatewayRequestDuration   *prometheus.HistogramVec

	// signatures
	SignatureMismatchTotal *prometheus.CounterVec

	// reconciliation
	WebhooksReceivedTotal      *prometheus.CounterVec
	WebhookEventsTotal         *prometheus.CounterVec
	WebhookProcessingDuration  *prometheus.HistogramVec
	WebhookEventsFailedTotal   prometheus.Counter
	WebhookEventsRequeuedTotal prometheus.Counter
	TransitionsTotal           *prometheus.CounterVec
	PaymentSuccessTotal        *prometheus.CounterVec
	PaymentSuccessAmountTotal  *prometheus.CounterVec

	OperatorAlertsTotal *prometheus.CounterVec
}

// NewPaymentMetrics registers every collector on reg.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)

	return &PaymentMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_created_total",
				Help: "Gateway orders created together with their booking and payment",
			},
			[]string{"currency"},
		),

		OrdersCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_created_amount_minor_total",
				Help: "Sum of created order amounts in minor units",
			},
			[]string{"currency"},
		),

		OrderCreationFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_order_creation_failed_total",
				Help: "Order creations that failed, by reason",
			},
			[]string{"reason"},
		),

		OrphanedOrdersTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_orphaned_orders_total",
				Help: "Gateway orders left without a local booking",
			},
		),

		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_gateway_request_duration_seconds",
				Help:    "Latency of gateway calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"operation", "outcome"},
		),

		SignatureMismatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_signature_mismatch_total",
				Help: "Rejected signatures by source",
			},
			[]string{"source"},
		),

		WebhooksReceivedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhooks_received_total",
				Help: "Webhook deliveries by acceptance result",
			},
			[]string{"result"},
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_events_total",
				Help: "Processed webhook events by event name and outcome",
			},
			[]string{"event", "outcome"},
		),

		WebhookProcessingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_webhook_processing_duration_seconds",
				Help:    "Time to apply one webhook event",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event"},
		),

		WebhookEventsFailedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_webhook_events_failed_total",
				Help: "Webhook events that exhausted in-process retries",
			},
		),

		WebhookEventsRequeuedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_webhook_events_requeued_total",
				Help: "Webhook events re-enqueued by the reconciler",
			},
		),

		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_transitions_total",
				Help: "Status transitions by transition name and outcome",
			},
			[]string{"transition", "outcome"},
		),

		PaymentSuccessTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_success_total",
				Help: "Payments that moved into a success status, counted once per payment",
			},
			[]string{"currency", "source"},
		),

		PaymentSuccessAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_success_amount_minor_total",
				Help: "Sum of successful payment amounts in minor units",
			},
			[]string{"currency"},
		),

		OperatorAlertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_operator_alerts_total",
				Help: "Alerts raised for operator review by kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *PaymentMetrics) RecordOrderCreated(currency string, amount int64) {
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
	m.OrdersCreatedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *PaymentMetrics) RecordOrderCreationFailed(reason string) {
	m.OrderCreationFailedTotal.WithLabelValues(reason).Inc()
}

func (m *PaymentMetrics) RecordOrphanedOrder() {
	m.OrphanedOrdersTotal.Inc()
}

func (m *PaymentMetrics) RecordGatewayRequest(operation string, durationSeconds float64, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.GatewayRequestDuration.WithLabelValues(operation, outcome).Observe(durationSeconds)
}

func (m *PaymentMetrics) RecordSignatureMismatch(source string) {
	m.SignatureMismatchTotal.WithLabelValues(source).Inc()
}

func (m *PaymentMetrics) RecordWebhookReceived(result string) {
	m.WebhooksReceivedTotal.WithLabelValues(result).Inc()
}

func (m *PaymentMetrics) RecordWebhookEvent(event, outcome string, durationSeconds float64) {
	m.WebhookEventsTotal.WithLabelValues(event, outcome).Inc()
	m.WebhookProcessingDuration.WithLabelValues(event).Observe(durationSeconds)
}

func (m *PaymentMetrics) RecordWebhookFailed() {
	m.WebhookEventsFailedTotal.Inc()
}

func (m *PaymentMetrics) RecordWebhookRequeued(count int) {
	m.WebhookEventsRequeuedTotal.Add(float64(count))
}

func (m *PaymentMetrics) RecordTransition(transition, outcome string) {
	m.TransitionsTotal.WithLabelValues(transition, outcome).Inc()
}

func (m *PaymentMetrics) RecordPaymentSuccess(currency, source string, amount int64) {
	m.PaymentSuccessTotal.WithLabelValues(currency, source).Inc()
	m.PaymentSuccessAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *PaymentMetrics) RecordOperatorAlert(kind string) {
	m.OperatorAlertsTotal.WithLabelValues(kind).Inc()
}
