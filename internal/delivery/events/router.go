package events

import (
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/queue"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const (
	webhookHandlerName = "process_webhook"
	poisonHandlerName  = "record_poisoned_webhook"
)

type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:      maxRetries,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// NewRouter wires the webhook worker. A message that keeps failing after
// the retries is moved to the poison topic, where RecordPoisoned stores it
// as FAILED for the requeue task.
func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	subscriber message.Subscriber,
	publisher message.Publisher,
	handler *Handler,
	retry RetryConfig,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(LoggingMiddleware)

	poisonQueue, err := middleware.PoisonQueue(publisher, queue.PoisonTopic)
	if err != nil {
		return nil, err
	}

	webhookHandler := router.AddNoPublisherHandler(
		webhookHandlerName,
		queue.WebhookTopic,
		subscriber,
		handler.ProcessWebhook,
	)
	webhookHandler.AddMiddleware(
		poisonQueue,
		middleware.Retry{
			MaxRetries:      retry.MaxRetries,
			InitialInterval: retry.InitialInterval,
			MaxInterval:     retry.MaxInterval,
			Multiplier:      2,
			Logger:          watermillLogger,
		}.Middleware,
	)

	router.AddNoPublisherHandler(
		poisonHandlerName,
		queue.PoisonTopic,
		subscriber,
		handler.RecordPoisoned,
	)

	return router, nil
}
