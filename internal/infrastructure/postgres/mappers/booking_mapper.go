package mappers

import (
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainBooking(model *models.BookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          model.ID,
		Code:        model.Code,
		UserID:      model.UserID,
		TripID:      model.TripID,
		QuotationID: model.QuotationID,
		Financials: domain.FinancialSnapshot{
			Amount:             model.Amount,
			Currency:           model.Currency,
			TaxPercentage:      model.TaxPercentage,
			TaxAmount:          model.TaxAmount,
			CouponCode:         model.CouponCode,
			CouponDiscount:     model.CouponDiscount,
			Discount:           model.Discount,
			AdditionalDiscount: model.AdditionalDiscount,
			FinalAmount:        model.FinalAmount,
		},
		Status:    domain.BookingStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMBooking(booking *domain.Booking) *models.BookingModel {
	return &models.BookingModel{
		ID:                 booking.ID,
		Code:               booking.Code,
		UserID:             booking.UserID,
		TripID:             booking.TripID,
		QuotationID:        booking.QuotationID,
		Amount:             booking.Financials.Amount,
		Currency:           booking.Financials.Currency,
		TaxPercentage:      booking.Financials.TaxPercentage,
		TaxAmount:          booking.Financials.TaxAmount,
		CouponCode:         booking.Financials.CouponCode,
		CouponDiscount:     booking.Financials.CouponDiscount,
		Discount:           booking.Financials.Discount,
		AdditionalDiscount: booking.Financials.AdditionalDiscount,
		FinalAmount:        booking.Financials.FinalAmount,
		Status:             string(booking.Status),
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}
}
