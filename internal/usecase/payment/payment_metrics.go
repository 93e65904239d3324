package usecase

import (
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

func (uc *DefaultPaymentUsecase) recordOrderCreatedMetrics(payment *domain.Payment) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOrderCreated(payment.Currency, payment.Amount)
}

func (uc *DefaultPaymentUsecase) recordOrderCreationFailedMetrics(reason string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOrderCreationFailed(reason)
}

func (uc *DefaultPaymentUsecase) recordOrphanedOrderMetrics() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOrphanedOrder()
}

func (uc *DefaultPaymentUsecase) recordGatewayRequestMetrics(operation string, start time.Time, ok bool) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordGatewayRequest(operation, uc.now().Sub(start).Seconds(), ok)
}

func (uc *DefaultPaymentUsecase) recordSignatureMismatchMetrics(source string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordSignatureMismatch(source)
}

func (uc *DefaultPaymentUsecase) recordWebhookReceivedMetrics(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordWebhookReceived(result)
}

func (uc *DefaultPaymentUsecase) recordWebhookEventMetrics(event string, outcome domain.ReconcileOutcome, start time.Time) {
	if uc.Metrics == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	uc.Metrics.RecordWebhookEvent(event, string(outcome), uc.now().Sub(start).Seconds())
}

func (uc *DefaultPaymentUsecase) recordWebhookFailedMetrics() {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordWebhookFailed()
}

func (uc *DefaultPaymentUsecase) recordWebhookRequeuedMetrics(count int) {
	if uc.Metrics == nil || count == 0 {
		return
	}
	uc.Metrics.RecordWebhookRequeued(count)
}

func (uc *DefaultPaymentUsecase) recordTransitionMetrics(transition string, outcome domain.ReconcileOutcome) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransition(transition, string(outcome))
}

// recordPaymentSuccessMetrics is called once per payment, by the write that
// recorded the logical success.
func (uc *DefaultPaymentUsecase) recordPaymentSuccessMetrics(payment *domain.Payment, source string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordPaymentSuccess(payment.Currency, source, payment.Amount)
}

func (uc *DefaultPaymentUsecase) recordOperatorAlertMetrics(kind string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordOperatorAlert(kind)
}
