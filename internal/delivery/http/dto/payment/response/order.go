package response

type CreateOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id"`
	BookingID   string `json:"booking_id"`
	BookingCode string `json:"booking_code"`
}

type VerifyPaymentResponse struct {
	Success       bool   `json:"success"`
	PaymentStatus string `json:"payment_status,omitempty"`
	BookingStatus string `json:"booking_status,omitempty"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
