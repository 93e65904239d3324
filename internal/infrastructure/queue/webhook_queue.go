package queue

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

type WebhookQueue struct {
	publisher message.Publisher
	topic     string
}

func NewWebhookQueue(publisher message.Publisher) *WebhookQueue {
	return &WebhookQueue{publisher: publisher, topic: WebhookTopic}
}

// Enqueue publishes the raw webhook body. The message is detached from ctx:
// processing outlives the HTTP request that accepted it.
func (q *WebhookQueue) Enqueue(_ context.Context, eventID string, body []byte) error {
	msg := message.NewMessage(eventID, body)
	msg.Metadata.Set(EventIDKey, eventID)

	if err := q.publisher.Publish(q.topic, msg); err != nil {
		return fmt.Errorf("enqueue webhook event %s: %w", eventID, err)
	}
	return nil
}
