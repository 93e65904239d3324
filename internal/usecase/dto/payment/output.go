package paymentdto

import "github.com/LavaJover/shvark-payment-service/internal/domain"

type CreateOrderOutput struct {
	OrderID     string
	Amount      int64
	Currency    string
	KeyID       string
	BookingID   string
	BookingCode string
}

type VerifyPaymentOutput struct {
	Verified      bool
	PaymentStatus domain.PaymentStatus
	BookingStatus domain.BookingStatus
}

type BookingOutput struct {
	Booking *domain.Booking
	Payment *domain.Payment
}
