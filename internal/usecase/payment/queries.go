package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
)

func (uc *DefaultPaymentUsecase) GetBookingByCode(ctx context.Context, code string) (*paymentdto.BookingOutput, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: booking code is required", domain.ErrInvalidRequest)
	}

	booking, err := uc.BookingRepo.GetBookingByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	payment, err := uc.PaymentRepo.GetPaymentByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	return &paymentdto.BookingOutput{
		Booking: booking,
		Payment: payment,
	}, nil
}
