package kafka

import (
	"context"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/sirupsen/logrus"
)

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	for _, m := range msgs {
		logrus.WithFields(logrus.Fields{
			"topic": topic,
			"key":   string(m.Key),
		}).Debug(string(m.Value))
	}
	return nil
}
