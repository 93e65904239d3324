package usecase

import (
	"context"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/sirupsen/logrus"
)

// publishPaymentEvent runs after commit. A publish failure is logged and
// never undoes the stored state.
func (uc *DefaultPaymentUsecase) publishPaymentEvent(ctx context.Context, eventType string, payment *domain.Payment, booking *domain.Booking, source string) {
	if uc.Publisher == nil || payment == nil {
		return
	}

	event := domain.PaymentEvent{
		Type:           eventType,
		PaymentID:      payment.ID,
		BookingID:      payment.BookingID,
		GatewayOrderID: payment.Gateway.OrderID,
		Status:         payment.Status,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Source:         source,
		OccurredAt:     uc.now(),
	}
	if payment.Gateway.PaymentID != nil {
		event.GatewayPaymentID = *payment.Gateway.PaymentID
	}
	if booking != nil {
		event.BookingStatus = booking.Status
	}

	if err := uc.Publisher.PublishPaymentEvent(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":     eventType,
			"order_id": event.GatewayOrderID,
		}).Error("failed to publish payment event")
	}
}

func (uc *DefaultPaymentUsecase) raiseAlert(ctx context.Context, alert domain.OperatorAlert) {
	if alert.OccurredAt.IsZero() {
		alert.OccurredAt = uc.now()
	}
	uc.recordOperatorAlertMetrics(alert.Kind)

	logrus.WithFields(logrus.Fields{
		"kind":       alert.Kind,
		"event_id":   alert.EventID,
		"event":      alert.Event,
		"order_id":   alert.OrderID,
		"payment_id": alert.PaymentID,
		"reason":     alert.Reason,
	}).Warn("operator alert")

	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishOperatorAlert(ctx, alert); err != nil {
		logrus.WithError(err).WithField("kind", alert.Kind).Error("failed to publish operator alert")
	}
}
