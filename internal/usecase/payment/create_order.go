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

const maxReceiptLength = 40

// CreateOrder registers the order with the gateway first, outside any
// transaction, then writes the Booking and its Payment in one transaction.
// A gateway failure leaves no local rows. A storage failure leaves an
// orphaned gateway order, which is logged for operators.
func (uc *DefaultPaymentUsecase) CreateOrder(ctx context.Context, input *paymentdto.CreateOrderInput) (*paymentdto.CreateOrderOutput, error) {
	if err := uc.normalizeCreateOrderInput(input); err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"user_id":      input.UserID,
		"trip_id":      input.TripID,
		"quotation_id": input.QuotationID,
		"amount":       input.Amount,
		"currency":     input.Currency,
	})

	start := uc.now()
	gatewayOrder, err := uc.Gateway.CreateOrder(ctx, input.Amount, input.Currency, input.Receipt)
	uc.recordGatewayRequestMetrics("create_order", start, err == nil)
	if err != nil {
		uc.recordOrderCreationFailedMetrics("gateway")
		log.WithError(err).Error("gateway order creation failed")
		if !errors.Is(err, domain.ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
		}
		return nil, err
	}
	if gatewayOrder.Amount != 0 && gatewayOrder.Amount != input.Amount {
		log.WithField("gateway_amount", gatewayOrder.Amount).Warn("gateway order amount differs from request")
	}

	log = log.WithField("order_id", gatewayOrder.ID)

	now := uc.now()
	booking := &domain.Booking{
		ID:          uuid.New().String(),
		Code:        uc.newBookingCode(),
		UserID:      input.UserID,
		TripID:      input.TripID,
		QuotationID: input.QuotationID,
		Financials: domain.FinancialSnapshot{
			Amount:             input.Amount,
			Currency:           input.Currency,
			TaxPercentage:      input.Financials.TaxPercentage,
			TaxAmount:          input.Financials.TaxAmount,
			CouponCode:         input.Financials.CouponCode,
			CouponDiscount:     input.Financials.CouponDiscount,
			Discount:           input.Financials.Discount,
			AdditionalDiscount: input.Financials.AdditionalDiscount,
			FinalAmount:        input.Financials.FinalAmount,
		},
		Status:    domain.BookingStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		BookingID: booking.ID,
		Amount:    input.Amount,
		Currency:  input.Currency,
		Mode:      domain.PaymentModeRazorpay,
		Gateway: domain.GatewayDetails{
			OrderID: gatewayOrder.ID,
		},
		Status:    domain.PaymentStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.TxManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.BookingRepo.CreateBooking(ctx, booking); err != nil {
			return err
		}
		return uc.PaymentRepo.CreatePayment(ctx, payment)
	})
	if err != nil {
		reason := "storage"
		if errors.Is(err, domain.ErrDuplicateRecord) {
			reason = "duplicate"
		}
		uc.recordOrderCreationFailedMetrics(reason)
		log.WithError(err).Error("failed to persist booking and payment, gateway order is orphaned")
		uc.logOrphanedOrder(ctx, input, gatewayOrder, err)
		return nil, storageFailure("create booking and payment", err)
	}

	log.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"booking_code": booking.Code,
	}).Info("order created")

	uc.recordOrderCreatedMetrics(payment)
	uc.publishPaymentEvent(ctx, domain.PaymentEventCreated, payment, booking, "order")

	return &paymentdto.CreateOrderOutput{
		OrderID:     gatewayOrder.ID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		KeyID:       uc.Config.KeyID,
		BookingID:   booking.ID,
		BookingCode: booking.Code,
	}, nil
}

func (uc *DefaultPaymentUsecase) normalizeCreateOrderInput(input *paymentdto.CreateOrderInput) error {
	if input == nil {
		return fmt.Errorf("%w: empty request", domain.ErrInvalidRequest)
	}

	input.UserID = strings.TrimSpace(input.UserID)
	input.TripID = strings.TrimSpace(input.TripID)
	input.QuotationID = strings.TrimSpace(input.QuotationID)

	var missing []string
	if input.UserID == "" {
		missing = append(missing, "user_id")
	}
	if input.TripID == "" {
		missing = append(missing, "trip_id")
	}
	if input.QuotationID == "" {
		missing = append(missing, "quotation_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}

	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be a positive number of minor units", domain.ErrInvalidRequest)
	}

	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if input.Currency == "" {
		input.Currency = uc.Config.DefaultCurrency
	}
	if !isCurrencyCode(input.Currency) {
		return fmt.Errorf("%w: currency %q is not a 3-letter code", domain.ErrInvalidRequest, input.Currency)
	}

	if input.Receipt == "" {
		input.Receipt = fmt.Sprintf("rcpt_%d", uc.now().UnixNano())
	}
	if len(input.Receipt) > maxReceiptLength {
		return fmt.Errorf("%w: receipt longer than %d characters", domain.ErrInvalidRequest, maxReceiptLength)
	}

	f := &input.Financials
	if f.TaxPercentage < 0 || f.TaxPercentage > 100 {
		return fmt.Errorf("%w: tax_percentage out of range", domain.ErrInvalidRequest)
	}
	if f.TaxAmount < 0 || f.CouponDiscount < 0 || f.Discount < 0 || f.AdditionalDiscount < 0 || f.FinalAmount < 0 {
		return fmt.Errorf("%w: negative amount in financial snapshot", domain.ErrInvalidRequest)
	}
	if f.FinalAmount == 0 {
		f.FinalAmount = input.Amount
	}

	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// logOrphanedOrder is best effort: the caller already failed.
func (uc *DefaultPaymentUsecase) logOrphanedOrder(ctx context.Context, input *paymentdto.CreateOrderInput, gatewayOrder *domain.GatewayOrder, cause error) {
	uc.recordOrphanedOrderMetrics()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if uc.OrphanedOrderRepo != nil {
		err := uc.OrphanedOrderRepo.LogOrphanedOrder(ctx, &domain.OrphanedOrder{
			ID:             uuid.New().String(),
			GatewayOrderID: gatewayOrder.ID,
			Amount:         input.Amount,
			Currency:       input.Currency,
			Receipt:        input.Receipt,
			UserID:         input.UserID,
			TripID:         input.TripID,
			QuotationID:    input.QuotationID,
			ErrorMessage:   cause.Error(),
			CreatedAt:      uc.now(),
		})
		if err != nil {
			logrus.WithError(err).WithField("order_id", gatewayOrder.ID).Error("failed to log orphaned order")
		}
	}

	uc.raiseAlert(ctx, domain.OperatorAlert{
		Kind:    domain.AlertOrphanedOrder,
		OrderID: gatewayOrder.ID,
		Reason:  cause.Error(),
	})
}

func storageFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStorageFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageFailure, err)
}
