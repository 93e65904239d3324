package models

import "time"

type PaymentModel struct {
	ID               string  `gorm:"primaryKey;type:uuid"`
	UserID           string  `gorm:"not null;index:idx_payments_user_id"`
	BookingID        string  `gorm:"type:uuid;not null;uniqueIndex:idx_payments_booking_id"`
	Amount           int64   `gorm:"not null"`
	Currency         string  `gorm:"size:3;not null"`
	Mode             string  `gorm:"size:16;not null"`
	GatewayOrderID   string  `gorm:"not null;uniqueIndex:idx_payments_gateway_order_id"`
	GatewayPaymentID *string `gorm:"index:idx_payments_gateway_payment_id"`
	GatewaySignature *string
	RefundID         *string
	RefundAmount     *int64
	Status           string `gorm:"size:16;not null;index:idx_payments_status"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
