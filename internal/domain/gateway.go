package domain

import "context"

type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// PaymentGateway fails closed: any error means no usable order exists.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
}

type SignatureVerifier interface {
	VerifyCheckout(orderID, paymentID, signature string) bool
	VerifyWebhook(body []byte, signature string) bool
}

type GatewayEventDecoder interface {
	DecodeEvent(eventID string, body []byte) (GatewayEvent, error)
}
