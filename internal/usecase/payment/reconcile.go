package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/sirupsen/logrus"
)

// ApplyGatewayEvent applies one decoded gateway event. Events that reference
// no local payment come back as OutcomeOrphaned without touching storage.
func (uc *DefaultPaymentUsecase) ApplyGatewayEvent(ctx context.Context, event domain.GatewayEvent) (*domain.TransitionResult, error) {
	switch e := event.(type) {
	case domain.PaymentCaptured:
		if e.Payment.ID == "" {
			return nil, fmt.Errorf("%w: %s without payment id", domain.ErrMalformedEvent, e.Name)
		}
		return uc.reconcileByOrderID(ctx, e.Payment.OrderID, domain.TransitionPaymentCaptured, optional(e.Payment.ID))
	case domain.PaymentFailed:
		return uc.reconcileByOrderID(ctx, e.Payment.OrderID, domain.TransitionPaymentFailed, optional(e.Payment.ID))
	case domain.PaymentAuthorized:
		return uc.reconcileByOrderID(ctx, e.Payment.OrderID, domain.TransitionPaymentAuthorized, optional(e.Payment.ID))
	case domain.RefundCreated:
		return uc.reconcileRefund(ctx, e)
	case domain.UnknownEvent:
		logrus.WithFields(logrus.Fields{
			"event":    e.Name,
			"event_id": e.ID,
		}).Info("ignoring unhandled gateway event")
		return &domain.TransitionResult{Outcome: domain.OutcomeIgnored}, nil
	default:
		logrus.WithField("type", fmt.Sprintf("%T", event)).Warn("ignoring gateway event of unexpected type")
		return &domain.TransitionResult{Outcome: domain.OutcomeIgnored}, nil
	}
}

func (uc *DefaultPaymentUsecase) reconcileByOrderID(ctx context.Context, orderID string, transition domain.Transition, gatewayPaymentID *string) (*domain.TransitionResult, error) {
	payment, err := uc.PaymentRepo.GetPaymentByOrderID(ctx, orderID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return &domain.TransitionResult{Outcome: domain.OutcomeOrphaned}, nil
	}
	if err != nil {
		return nil, storageFailure("load payment by order id", err)
	}

	return uc.applyTransition(ctx, payment.ID, transition, domain.PaymentUpdate{PaymentID: gatewayPaymentID}, "webhook")
}

// reconcileRefund correlates by gateway payment id, falling back to the order
// id carried in the refund payload when the payment id is not known yet.
func (uc *DefaultPaymentUsecase) reconcileRefund(ctx context.Context, event domain.RefundCreated) (*domain.TransitionResult, error) {
	payment, err := uc.PaymentRepo.GetPaymentByGatewayPaymentID(ctx, event.Refund.PaymentID)
	if errors.Is(err, domain.ErrRecordNotFound) && event.Refund.OrderID != "" {
		payment, err = uc.PaymentRepo.GetPaymentByOrderID(ctx, event.Refund.OrderID)
	}
	if errors.Is(err, domain.ErrRecordNotFound) {
		return &domain.TransitionResult{Outcome: domain.OutcomeOrphaned}, nil
	}
	if err != nil {
		return nil, storageFailure("load payment for refund", err)
	}

	return uc.applyTransition(ctx, payment.ID, domain.TransitionRefundCreated, domain.PaymentUpdate{
		PaymentID: optional(event.Refund.PaymentID),
		Refund: &domain.Refund{
			ID:     event.Refund.ID,
			Amount: event.Refund.Amount,
		},
	}, "webhook")
}

// applyTransition locks the payment row, decides from its current status
// whether the transition is still an upgrade, and writes the payment and
// booking with compare-and-set updates in the same transaction. fields
// carries the gateway details to store alongside the status; its To and From
// come from transition. A stale transition is a no-op, not an error.
func (uc *DefaultPaymentUsecase) applyTransition(
	ctx context.Context,
	paymentID string,
	transition domain.Transition,
	fields domain.PaymentUpdate,
	source string,
) (*domain.TransitionResult, error) {
	var result domain.TransitionResult

	err := uc.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		result = domain.TransitionResult{Outcome: domain.OutcomeNoop}

		current, err := uc.PaymentRepo.LockPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		result.PreviousStatus = current.Status

		if current.Status.CanMoveTo(transition.Payment) {
			if transition.Payment == domain.PaymentStatusSuccess && fields.PaymentID == nil && current.Gateway.PaymentID == nil {
				return fmt.Errorf("%w: %s needs a gateway payment id", domain.ErrInvalidRequest, transition.Name)
			}

			update := fields
			update.To = transition.Payment
			update.From = transition.PaymentFrom()
			applied, err := uc.PaymentRepo.TransitionPayment(ctx, current.ID, update)
			if err != nil {
				return err
			}

			if applied {
				result.Outcome = domain.OutcomeApplied
				result.SuccessRecorded = !current.Status.IsSuccess() && transition.Payment.IsSuccess()

				if transition.ChangesBooking() {
					changed, err := uc.BookingRepo.TransitionBooking(ctx, current.BookingID, transition.Booking, transition.BookingFrom)
					if err != nil {
						return err
					}
					result.BookingChanged = changed
				}
			}
		}

		payment, err := uc.PaymentRepo.GetPaymentByOrderID(ctx, current.Gateway.OrderID)
		if err != nil {
			return err
		}
		booking, err := uc.BookingRepo.GetBookingByID(ctx, current.BookingID)
		if err != nil {
			return err
		}
		result.Payment = payment
		result.Booking = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return nil, err
		}
		return nil, storageFailure("apply "+transition.Name, err)
	}

	log := logrus.WithFields(logrus.Fields{
		"transition":      transition.Name,
		"order_id":        result.Payment.Gateway.OrderID,
		"booking_id":      result.Booking.ID,
		"previous_status": result.PreviousStatus,
		"payment_status":  result.Payment.Status,
		"booking_status":  result.Booking.Status,
		"outcome":         result.Outcome,
	})
	if result.Outcome == domain.OutcomeApplied {
		log.Info("payment transition applied")
	} else {
		log.Debug("payment transition is stale, nothing to do")
	}

	uc.recordTransitionMetrics(transition.Name, result.Outcome)
	if result.Outcome == domain.OutcomeApplied {
		uc.publishPaymentEvent(ctx, domain.PaymentEventStatusChanged, result.Payment, result.Booking, source)
	}
	if result.SuccessRecorded {
		uc.recordPaymentSuccessMetrics(result.Payment, source)
		uc.publishPaymentEvent(ctx, domain.PaymentEventSucceeded, result.Payment, result.Booking, source)
	}

	return &result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
