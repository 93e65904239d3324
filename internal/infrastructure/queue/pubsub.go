package queue

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const (
	WebhookTopic = "webhook-events"
	PoisonTopic  = "webhook-events-poison"

	// EventIDKey carries the gateway event id in message metadata.
	EventIDKey = "event_id"
)

type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	closers    []func() error
}

// NewPubSub builds the webhook transport. "memory" keeps messages in-process,
// "redis" uses Redis streams with a consumer group so events survive restarts.
func NewPubSub(cfg config.Queue, logger watermill.LoggerAdapter) (*PubSub, error) {
	switch cfg.Driver {
	case "", "memory":
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1024}, logger)
		return &PubSub{
			Publisher:  ch,
			Subscriber: ch,
			closers:    []func() error{ch.Close},
		}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: rdb,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis publisher: %w", err)
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: cfg.ConsumerGroup,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create redis subscriber: %w", err)
		}

		return &PubSub{
			Publisher:  publisher,
			Subscriber: subscriber,
			closers:    []func() error{subscriber.Close, publisher.Close, rdb.Close},
		}, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}

func (p *PubSub) Close() error {
	var errs []error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
