package domain

import "time"

const (
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventPaymentAuthorized = "payment.authorized"
	EventRefundCreated     = "refund.created"
)

// GatewayEvent is a decoded webhook. The set of implementations is closed:
// PaymentCaptured, PaymentFailed, PaymentAuthorized, RefundCreated and
// UnknownEvent.
type GatewayEvent interface {
	Meta() EventMeta
	gatewayEvent()
}

type EventMeta struct {
	ID        string
	Name      string
	AccountID string
	CreatedAt time.Time
}

func (m EventMeta) Meta() EventMeta { return m }

type PaymentEntity struct {
	ID               string
	OrderID          string
	Amount           int64
	Currency         string
	Status           string
	Method           string
	ErrorCode        string
	ErrorDescription string
}

// RefundEntity.OrderID comes from the payment embedded in the refund event
// and may be empty.
type RefundEntity struct {
	ID        string
	PaymentID string
	OrderID   string
	Amount    int64
	Currency  string
	Status    string
}

type PaymentCaptured struct {
	EventMeta
	Payment PaymentEntity
}

type PaymentFailed struct {
	EventMeta
	Payment PaymentEntity
}

type PaymentAuthorized struct {
	EventMeta
	Payment PaymentEntity
}

type RefundCreated struct {
	EventMeta
	Refund RefundEntity
}

// UnknownEvent is any validly signed event this service does not act on.
type UnknownEvent struct {
	EventMeta
}

func (PaymentCaptured) gatewayEvent()   {}
func (PaymentFailed) gatewayEvent()     {}
func (PaymentAuthorized) gatewayEvent() {}
func (RefundCreated) gatewayEvent()     {}
func (UnknownEvent) gatewayEvent()      {}
