package domain

import (
	"context"
	"time"
)

const (
	PaymentEventCreated       = "payment.created"
	PaymentEventStatusChanged = "payment.status_changed"
	PaymentEventSucceeded     = "payment.succeeded"
)

// PaymentEvent is published after commit. A payment.succeeded event is
// emitted once per payment, by the write that first moved it into a success
// status.
type PaymentEvent struct {
	Type             string        `json:"type"`
	PaymentID        string        `json:"payment_id"`
	BookingID        string        `json:"booking_id"`
	GatewayOrderID   string        `json:"gateway_order_id"`
	GatewayPaymentID string        `json:"gateway_payment_id,omitempty"`
	Status           PaymentStatus `json:"status"`
	BookingStatus    BookingStatus `json:"booking_status"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	Source           string        `json:"source"`
	OccurredAt       time.Time     `json:"occurred_at"`
}

const (
	AlertOrphanedEvent        = "orphaned_event"
	AlertUnparseableEvent     = "unparseable_event"
	AlertEventFailed          = "event_failed"
	AlertOrphanedOrder        = "orphaned_order"
	AlertVerifiedWithoutOrder = "verified_without_record"
)

// OperatorAlert marks something a human has to look at.
type OperatorAlert struct {
	Kind       string    `json:"kind"`
	EventID    string    `json:"event_id,omitempty"`
	Event      string    `json:"event,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event PaymentEvent) error
	PublishOperatorAlert(ctx context.Context, alert OperatorAlert) error
}
