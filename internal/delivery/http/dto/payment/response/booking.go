package response

import "time"

type BookingResponse struct {
	Success bool         `json:"success"`
	Booking BookingView  `json:"booking"`
	Payment *PaymentView `json:"payment,omitempty"`
}

type BookingView struct {
	ID          string         `json:"id"`
	Code        string         `json:"code"`
	UserID      string         `json:"user_id"`
	TripID      string         `json:"trip_id"`
	QuotationID string         `json:"quotation_id"`
	Status      string         `json:"status"`
	Financials  FinancialsView `json:"financials"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type FinancialsView struct {
	Amount             int64   `json:"amount"`
	Currency           string  `json:"currency"`
	TaxPercentage      float64 `json:"tax_percentage"`
	TaxAmount          int64   `json:"tax_amount"`
	CouponCode         string  `json:"coupon_code,omitempty"`
	CouponDiscount     int64   `json:"coupon_discount"`
	Discount           int64   `json:"discount"`
	AdditionalDiscount int64   `json:"additional_discount"`
	FinalAmount        int64   `json:"final_amount"`
}

type PaymentView struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Mode             string    `json:"mode"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	RefundID         string    `json:"refund_id,omitempty"`
	RefundAmount     int64     `json:"refund_amount,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
