package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

// PaymentEventPublisher keys payment events by gateway order id so every
// event of one order lands on the same partition.
type PaymentEventPublisher struct {
	port          domain.PublisherPort
	paymentTopic  string
	operatorTopic string
}

func NewPaymentEventPublisher(port domain.PublisherPort, paymentTopic, operatorTopic string) *PaymentEventPublisher {
	return &PaymentEventPublisher{
		port:          port,
		paymentTopic:  paymentTopic,
		operatorTopic: operatorTopic,
	}
}

func (p *PaymentEventPublisher) PublishPaymentEvent(ctx context.Context, event domain.PaymentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	return p.port.Publish(ctx, p.paymentTopic, domain.Message{Key: []byte(event.GatewayOrderID), Value: value})
}

func (p *PaymentEventPublisher) PublishOperatorAlert(ctx context.Context, alert domain.OperatorAlert) error {
	value, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal operator alert: %w", err)
	}
	key := alert.OrderID
	if key == "" {
		key = alert.EventID
	}
	return p.port.Publish(ctx, p.operatorTopic, domain.Message{Key: []byte(key), Value: value})
}
