package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"
)

func LoggingMiddleware(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		start := time.Now()
		log := logrus.WithFields(logrus.Fields{
			"message_uuid": msg.UUID,
			"event_id":     eventID(msg),
			"handler":      message.HandlerNameFromCtx(msg.Context()),
		})
		log.Debug("handling a message")

		msgs, err := next(msg)
		if err != nil {
			log.WithError(err).
				WithField("duration", time.Since(start).String()).
				Error("message handling error")
		}

		return msgs, err
	}
}
