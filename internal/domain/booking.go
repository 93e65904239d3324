package domain

import (
	"context"
	"time"
)

type BookingStatus string

const (
	BookingStatusCreated   BookingStatus = "CREATED"
	BookingStatusReserved  BookingStatus = "RESERVED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// FinancialSnapshot is captured when the booking is created and never
// recomputed from gateway data. All amounts are in minor currency units.
type FinancialSnapshot struct {
	Amount             int64
	Currency           string
	TaxPercentage      float64
	TaxAmount          int64
	CouponCode         string
	CouponDiscount     int64
	Discount           int64
	AdditionalDiscount int64
	FinalAmount        int64
}

type Booking struct {
	ID          string
	Code        string
	UserID      string
	TripID      string
	QuotationID string
	Financials  FinancialSnapshot
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingRepository has no delete operation: bookings are kept for audit.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, bookingID string) (*Booking, error)
	GetBookingByCode(ctx context.Context, code string) (*Booking, error)
	// TransitionBooking moves the booking to `to` only if its current status is
	// one of `from`. It reports whether a row changed.
	TransitionBooking(ctx context.Context, bookingID string, to BookingStatus, from []BookingStatus) (bool, error)
}
