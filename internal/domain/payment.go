package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "CREATED"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusCaptured   PaymentStatus = "CAPTURED"
	PaymentStatusSuccess    PaymentStatus = "SUCCESS"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
)

var paymentStatusRank = map[PaymentStatus]int{
	PaymentStatusCreated:    0,
	PaymentStatusAuthorized: 1,
	PaymentStatusFailed:     2,
	PaymentStatusCancelled:  2,
	PaymentStatusCaptured:   3,
	PaymentStatusSuccess:    4,
	PaymentStatusRefunded:   5,
}

var paymentStatuses = []PaymentStatus{
	PaymentStatusCreated,
	PaymentStatusAuthorized,
	PaymentStatusFailed,
	PaymentStatusCancelled,
	PaymentStatusCaptured,
	PaymentStatusSuccess,
	PaymentStatusRefunded,
}

// Rank orders statuses by authority. A payment only ever moves to a status
// of strictly higher rank. Unknown statuses rank -1.
func (s PaymentStatus) Rank() int {
	rank, ok := paymentStatusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// IsSuccess reports whether money was taken for the payment.
func (s PaymentStatus) IsSuccess() bool {
	return s == PaymentStatusCaptured || s == PaymentStatusSuccess
}

// CanMoveTo reports whether s may be replaced by target.
func (s PaymentStatus) CanMoveTo(target PaymentStatus) bool {
	return s.Rank() < target.Rank()
}

// PaymentStatusesBelow lists every status that may move to target, i.e. the
// compare-and-set source set for a transition into target.
func PaymentStatusesBelow(target PaymentStatus) []PaymentStatus {
	var below []PaymentStatus
	for _, status := range paymentStatuses {
		if status.CanMoveTo(target) {
			below = append(below, status)
		}
	}
	return below
}

type PaymentMode string

const (
	PaymentModeRazorpay PaymentMode = "RAZORPAY"
	PaymentModeUPI      PaymentMode = "UPI"
	PaymentModeCash     PaymentMode = "CASH"
	PaymentModeOther    PaymentMode = "OTHER"
)

// GatewayDetails is what the gateway told us about the payment. PaymentID is
// nil until a payment is made against the order, Signature until checkout
// verification succeeds.
type GatewayDetails struct {
	OrderID   string
	PaymentID *string
	Signature *string
}

// Refund is set when the payment moves to REFUNDED.
type Refund struct {
	ID     string
	Amount int64
}

type Payment struct {
	ID        string
	UserID    string
	BookingID string
	Amount    int64
	Currency  string
	Mode      PaymentMode
	Gateway   GatewayDetails
	Refund    *Refund
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentUpdate is a compare-and-set write. Nil pointers leave columns untouched.
type PaymentUpdate struct {
	To        PaymentStatus
	From      []PaymentStatus
	PaymentID *string
	Signature *string
	Refund    *Refund
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error)
	GetPaymentByGatewayPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	GetPaymentByBookingID(ctx context.Context, bookingID string) (*Payment, error)
	// LockPayment reloads the payment and holds a row lock until the
	// surrounding transaction ends.
	LockPayment(ctx context.Context, id string) (*Payment, error)
	TransitionPayment(ctx context.Context, id string, update PaymentUpdate) (bool, error)
}

// TxManager runs fn inside one storage transaction. Repositories called with
// the ctx passed to fn join that transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
