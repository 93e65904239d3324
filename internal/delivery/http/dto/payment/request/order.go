package request

// CreateOrderRequest amounts are minor currency units.
type CreateOrderRequest struct {
	Amount      int64              `json:"amount"`
	UserID      string             `json:"user_id"`
	TripID      string             `json:"trip_id"`
	QuotationID string             `json:"quotation_id"`
	Currency    string             `json:"currency,omitempty"`
	Receipt     string             `json:"receipt,omitempty"`
	Financials  *FinancialsRequest `json:"financials,omitempty"`
}

type FinancialsRequest struct {
	TaxPercentage      float64 `json:"tax_percentage"`
	TaxAmount          int64   `json:"tax_amount"`
	CouponCode         string  `json:"coupon_code"`
	CouponDiscount     int64   `json:"coupon_discount"`
	Discount           int64   `json:"discount"`
	AdditionalDiscount int64   `json:"additional_discount"`
	FinalAmount        int64   `json:"final_amount"`
}
