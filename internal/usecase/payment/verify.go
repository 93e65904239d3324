package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	"github.com/sirupsen/logrus"
)

// VerifyPayment checks the checkout signature and, on a match, moves the
// payment to CAPTURED and its booking to COMPLETED. A mismatch changes
// nothing.
func (uc *DefaultPaymentUsecase) VerifyPayment(ctx context.Context, input *paymentdto.VerifyPaymentInput) (*paymentdto.VerifyPaymentOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: empty request", domain.ErrInvalidRequest)
	}
	orderID := strings.TrimSpace(input.OrderID)
	paymentID := strings.TrimSpace(input.PaymentID)
	signature := strings.TrimSpace(input.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: order_id, payment_id and signature are required", domain.ErrInvalidRequest)
	}

	log := logrus.WithFields(logrus.Fields{
		"order_id":   orderID,
		"payment_id": paymentID,
	})

	if !uc.Verifier.VerifyCheckout(orderID, paymentID, signature) {
		uc.recordSignatureMismatchMetrics("checkout")
		log.Warn("checkout signature mismatch")
		return nil, domain.ErrSignatureMismatch
	}

	payment, err := uc.PaymentRepo.GetPaymentByOrderID(ctx, orderID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		// the signature proves the gateway saw this payment, so the order was
		// orphaned on our side
		uc.raiseAlert(ctx, domain.OperatorAlert{
			Kind:      domain.AlertVerifiedWithoutOrder,
			OrderID:   orderID,
			PaymentID: paymentID,
			Reason:    "verified checkout for an order with no local payment",
		})
		return &paymentdto.VerifyPaymentOutput{Verified: true}, nil
	}
	if err != nil {
		return nil, storageFailure("load payment by order id", err)
	}

	result, err := uc.applyTransition(ctx, payment.ID, domain.TransitionCheckoutVerified, domain.PaymentUpdate{
		PaymentID: &paymentID,
		Signature: &signature,
	}, "checkout")
	if err != nil {
		log.WithError(err).Error("failed to apply checkout verification")
		return nil, err
	}

	return &paymentdto.VerifyPaymentOutput{
		Verified:      true,
		PaymentStatus: result.Payment.Status,
		BookingStatus: result.Booking.Status,
	}, nil
}
