package paymentdto

// CreateOrderInput amounts are minor currency units.
type CreateOrderInput struct {
	Amount      int64
	UserID      string
	TripID      string
	QuotationID string
	Currency    string
	Receipt     string
	Financials  FinancialInput
}

type FinancialInput struct {
	TaxPercentage      float64
	TaxAmount          int64
	CouponCode         string
	CouponDiscount     int64
	Discount           int64
	AdditionalDiscount int64
	FinalAmount        int64
}

type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// WebhookInput.Body must be the request body exactly as received.
type WebhookInput struct {
	EventID   string
	Signature string
	Body      []byte
}
