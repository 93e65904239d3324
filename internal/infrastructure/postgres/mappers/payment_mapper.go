package mappers

import (
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:        model.ID,
		UserID:    model.UserID,
		BookingID: model.BookingID,
		Amount:    model.Amount,
		Currency:  model.Currency,
		Mode:      domain.PaymentMode(model.Mode),
		Gateway: domain.GatewayDetails{
			OrderID:   model.GatewayOrderID,
			PaymentID: model.GatewayPaymentID,
			Signature: model.GatewaySignature,
		},
		Refund:    toDomainRefund(model.RefundID, model.RefundAmount),
		Status:    domain.PaymentStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toDomainRefund(id *string, amount *int64) *domain.Refund {
	if id == nil {
		return nil
	}
	refund := &domain.Refund{ID: *id}
	if amount != nil {
		refund.Amount = *amount
	}
	return refund
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	model := &models.PaymentModel{
		ID:               payment.ID,
		UserID:           payment.UserID,
		BookingID:        payment.BookingID,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		Mode:             string(payment.Mode),
		GatewayOrderID:   payment.Gateway.OrderID,
		GatewayPaymentID: payment.Gateway.PaymentID,
		GatewaySignature: payment.Gateway.Signature,
		Status:           string(payment.Status),
		CreatedAt:        payment.CreatedAt,
		UpdatedAt:        payment.UpdatedAt,
	}
	if payment.Refund != nil {
		model.RefundID = &payment.Refund.ID
		model.RefundAmount = &payment.Refund.Amount
	}
	return model
}
