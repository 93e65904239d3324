package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AcceptWebhook verifies the signature over the raw body, records the event
// as RECEIVED and queues the body for ProcessWebhook. Nothing is applied on
// this path. The ledger row is written before the event is queued so that a
// message lost by the queue is still found by RequeueWebhookEvents.
func (uc *DefaultPaymentUsecase) AcceptWebhook(ctx context.Context, input *paymentdto.WebhookInput) (string, error) {
	if input == nil || len(input.Body) == 0 {
		uc.recordWebhookReceivedMetrics("invalid")
		return "", fmt.Errorf("%w: empty webhook body", domain.ErrInvalidRequest)
	}

	if input.Signature == "" || !uc.Verifier.VerifyWebhook(input.Body, input.Signature) {
		uc.recordSignatureMismatchMetrics("webhook")
		uc.recordWebhookReceivedMetrics("rejected")
		logrus.WithField("event_id", input.EventID).Warn("webhook signature mismatch")
		return "", domain.ErrSignatureMismatch
	}

	eventID := strings.TrimSpace(input.EventID)
	if eventID == "" {
		eventID = uuid.New().String()
	}

	err := uc.WebhookEventRepo.RecordReceived(ctx, &domain.WebhookEvent{
		ID:      eventID,
		Payload: input.Body,
		Status:  domain.WebhookEventReceived,
	})
	if errors.Is(err, domain.ErrEventAlreadyProcessed) {
		uc.recordWebhookReceivedMetrics("duplicate")
		logrus.WithField("event_id", eventID).Debug("webhook event already processed, not queued")
		return eventID, nil
	}
	if err != nil {
		uc.recordWebhookReceivedMetrics("storage_error")
		logrus.WithError(err).WithField("event_id", eventID).Error("failed to record webhook event")
		return "", storageFailure("record webhook event", err)
	}

	if err := uc.Queue.Enqueue(ctx, eventID, input.Body); err != nil {
		uc.recordWebhookReceivedMetrics("queue_error")
		logrus.WithError(err).WithField("event_id", eventID).Error("failed to queue webhook event")
		return "", fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, err)
	}

	uc.recordWebhookReceivedMetrics("accepted")
	return eventID, nil
}

// ProcessWebhook applies one queued webhook body. Redelivery of an event that
// already reached a final status is a no-op. Events that bypassed
// AcceptWebhook are recorded here. A returned error means the
// event should be retried.
func (uc *DefaultPaymentUsecase) ProcessWebhook(ctx context.Context, eventID string, body []byte) (domain.ReconcileOutcome, error) {
	start := uc.now()
	log := logrus.WithField("event_id", eventID)

	err := uc.WebhookEventRepo.RecordReceived(ctx, &domain.WebhookEvent{
		ID:      eventID,
		Payload: body,
		Status:  domain.WebhookEventReceived,
	})
	if errors.Is(err, domain.ErrEventAlreadyProcessed) {
		log.Debug("webhook event already processed")
		uc.recordWebhookEventMetrics("duplicate", domain.OutcomeNoop, start)
		return domain.OutcomeNoop, nil
	}
	if err != nil {
		return "", storageFailure("record webhook event", err)
	}

	event, err := uc.Decoder.DecodeEvent(eventID, body)
	if err != nil {
		return uc.ignoreUnparseable(ctx, eventID, "", err, start)
	}

	name := event.Meta().Name
	log = log.WithField("event", name)

	result, err := uc.ApplyGatewayEvent(ctx, event)
	if errors.Is(err, domain.ErrMalformedEvent) {
		return uc.ignoreUnparseable(ctx, eventID, name, err, start)
	}
	if err != nil {
		log.WithError(err).Error("failed to apply webhook event")
		return "", err
	}

	status := domain.WebhookEventProcessed
	switch result.Outcome {
	case domain.OutcomeIgnored:
		status = domain.WebhookEventIgnored
	case domain.OutcomeOrphaned:
		status = domain.WebhookEventOrphaned
		uc.raiseAlert(ctx, domain.OperatorAlert{
			Kind:    domain.AlertOrphanedEvent,
			EventID: eventID,
			Event:   name,
			OrderID: orderIDOf(event),
			Reason:  "no local payment matches the event",
		})
	}

	if err := uc.WebhookEventRepo.MarkHandled(ctx, eventID, name, status); err != nil {
		return "", storageFailure("mark webhook event handled", err)
	}

	log.WithField("outcome", result.Outcome).Info("webhook event processed")
	uc.recordWebhookEventMetrics(name, result.Outcome, start)
	return result.Outcome, nil
}

// ignoreUnparseable settles a validly signed body that cannot be applied.
// Retrying would not help, so it is stored as IGNORED and surfaced.
func (uc *DefaultPaymentUsecase) ignoreUnparseable(ctx context.Context, eventID, name string, cause error, start time.Time) (domain.ReconcileOutcome, error) {
	uc.raiseAlert(ctx, domain.OperatorAlert{
		Kind:    domain.AlertUnparseableEvent,
		EventID: eventID,
		Event:   name,
		Reason:  cause.Error(),
	})

	if err := uc.WebhookEventRepo.MarkHandled(ctx, eventID, name, domain.WebhookEventIgnored); err != nil {
		return "", storageFailure("mark webhook event ignored", err)
	}
	uc.recordWebhookEventMetrics(name, domain.OutcomeIgnored, start)
	return domain.OutcomeIgnored, nil
}

// RecordWebhookFailure is called once retries for an event are exhausted.
func (uc *DefaultPaymentUsecase) RecordWebhookFailure(ctx context.Context, eventID string, body []byte, reason string) error {
	uc.recordWebhookFailedMetrics()

	if err := uc.WebhookEventRepo.MarkFailed(ctx, eventID, body, reason); err != nil {
		logrus.WithError(err).WithField("event_id", eventID).Error("failed to mark webhook event failed")
		return storageFailure("mark webhook event failed", err)
	}

	uc.raiseAlert(ctx, domain.OperatorAlert{
		Kind:    domain.AlertEventFailed,
		EventID: eventID,
		Reason:  reason,
	})
	return nil
}

// RequeueWebhookEvents puts FAILED events that still have attempts left, and
// RECEIVED events that stalled, back on the queue.
func (uc *DefaultPaymentUsecase) RequeueWebhookEvents(ctx context.Context) (int, error) {
	staleBefore := uc.now().Add(-uc.Config.RequeueStaleAfter)
	events, err := uc.WebhookEventRepo.FindRetryable(ctx, uc.Config.RequeueMaxAttempts, staleBefore, uc.Config.RequeueBatchSize)
	if err != nil {
		return 0, storageFailure("find retryable webhook events", err)
	}

	requeued := 0
	var errs []error
	for _, event := range events {
		if err := uc.Queue.Enqueue(ctx, event.ID, event.Payload); err != nil {
			errs = append(errs, err)
			continue
		}
		requeued++
	}

	uc.recordWebhookRequeuedMetrics(requeued)
	if requeued > 0 {
		logrus.WithField("count", requeued).Info("requeued webhook events")
	}
	if len(errs) > 0 {
		return requeued, fmt.Errorf("%w: %v", domain.ErrQueueUnavailable, errors.Join(errs...))
	}
	return requeued, nil
}

func orderIDOf(event domain.GatewayEvent) string {
	switch e := event.(type) {
	case domain.PaymentCaptured:
		return e.Payment.OrderID
	case domain.PaymentFailed:
		return e.Payment.OrderID
	case domain.PaymentAuthorized:
		return e.Payment.OrderID
	case domain.RefundCreated:
		return e.Refund.OrderID
	}
	return ""
}
