package events

import (
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/queue"
	usecase "github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	uc usecase.PaymentUsecase
}

func NewHandler(uc usecase.PaymentUsecase) *Handler {
	return &Handler{uc: uc}
}

// ProcessWebhook applies one queued webhook body. An error hands the message
// to the retry middleware.
func (h *Handler) ProcessWebhook(msg *message.Message) error {
	_, err := h.uc.ProcessWebhook(msg.Context(), eventID(msg), msg.Payload)
	return err
}

// RecordPoisoned stores an event whose retries ran out. It always acks: if
// the failure cannot be stored, the event is still RECEIVED and the stale
// requeue picks it up later.
func (h *Handler) RecordPoisoned(msg *message.Message) error {
	reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey)
	if err := h.uc.RecordWebhookFailure(msg.Context(), eventID(msg), msg.Payload, reason); err != nil {
		logrus.WithError(err).WithField("event_id", eventID(msg)).Error("dropping poisoned webhook event")
	}
	return nil
}

func eventID(msg *message.Message) string {
	if id := msg.Metadata.Get(queue.EventIDKey); id != "" {
		return id
	}
	return msg.UUID
}
