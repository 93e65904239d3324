package domain

import (
	"context"
	"time"
)

// OrphanedOrder is a gateway order whose local Booking/Payment could not be
// written. Webhooks for it will find no payment.
type OrphanedOrder struct {
	ID             string
	GatewayOrderID string
	Amount         int64
	Currency       string
	Receipt        string
	UserID         string
	TripID         string
	QuotationID    string
	ErrorMessage   string
	CreatedAt      time.Time
}

type OrphanedOrderRepository interface {
	LogOrphanedOrder(ctx context.Context, order *OrphanedOrder) error
}
