package razorpay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type webhookEnvelope struct {
	Entity    string         `json:"entity"`
	AccountID string         `json:"account_id"`
	Event     string         `json:"event"`
	Contains  []string       `json:"contains"`
	Payload   webhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}

type webhookPayload struct {
	Payment *struct {
		Entity paymentEntity `json:"entity"`
	} `json:"payment"`
	Refund *struct {
		Entity refundEntity `json:"entity"`
	} `json:"refund"`
}

type paymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

type refundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

// ParseWebhook decodes a verified webhook body into a GatewayEvent. Known
// events missing their correlation key are rejected with
// domain.ErrMalformedEvent; unrecognised event names decode to UnknownEvent.
func ParseWebhook(eventID string, body []byte) (domain.GatewayEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if envelope.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", domain.ErrMalformedEvent)
	}

	meta := domain.EventMeta{
		ID:        eventID,
		Name:      envelope.Event,
		AccountID: envelope.AccountID,
	}
	if envelope.CreatedAt > 0 {
		meta.CreatedAt = time.Unix(envelope.CreatedAt, 0).UTC()
	}

	switch envelope.Event {
	case domain.EventPaymentCaptured, domain.EventPaymentFailed, domain.EventPaymentAuthorized:
		payment, err := envelope.paymentEntity()
		if err != nil {
			return nil, err
		}
		switch envelope.Event {
		case domain.EventPaymentCaptured:
			return domain.PaymentCaptured{EventMeta: meta, Payment: payment}, nil
		case domain.EventPaymentFailed:
			return domain.PaymentFailed{EventMeta: meta, Payment: payment}, nil
		default:
			return domain.PaymentAuthorized{EventMeta: meta, Payment: payment}, nil
		}
	case domain.EventRefundCreated:
		if envelope.Payload.Refund == nil || envelope.Payload.Refund.Entity.PaymentID == "" {
			return nil, fmt.Errorf("%w: %s without refund.payment_id", domain.ErrMalformedEvent, envelope.Event)
		}
		refund := envelope.Payload.Refund.Entity
		var orderID string
		if envelope.Payload.Payment != nil {
			orderID = envelope.Payload.Payment.Entity.OrderID
		}
		return domain.RefundCreated{
			EventMeta: meta,
			Refund: domain.RefundEntity{
				ID:        refund.ID,
				PaymentID: refund.PaymentID,
				OrderID:   orderID,
				Amount:    refund.Amount,
				Currency:  refund.Currency,
				Status:    refund.Status,
			},
		}, nil
	default:
		return domain.UnknownEvent{EventMeta: meta}, nil
	}
}

func (e webhookEnvelope) paymentEntity() (domain.PaymentEntity, error) {
	if e.Payload.Payment == nil || e.Payload.Payment.Entity.OrderID == "" {
		return domain.PaymentEntity{}, fmt.Errorf("%w: %s without payment.order_id", domain.ErrMalformedEvent, e.Event)
	}
	p := e.Payload.Payment.Entity
	return domain.PaymentEntity{
		ID:               p.ID,
		OrderID:          p.OrderID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           p.Status,
		Method:           p.Method,
		ErrorCode:        p.ErrorCode,
		ErrorDescription: p.ErrorDescription,
	}, nil
}

// EventDecoder adapts ParseWebhook to domain.GatewayEventDecoder.
type EventDecoder struct{}

func (EventDecoder) DecodeEvent(eventID string, body []byte) (domain.GatewayEvent, error) {
	return ParseWebhook(eventID, body)
}
