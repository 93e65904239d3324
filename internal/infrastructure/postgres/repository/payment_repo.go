package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	paymentModel := mappers.ToGORMPayment(payment)
	if err := conn(ctx, r.DB).Create(paymentModel).Error; err != nil {
		return translateError("create payment", err)
	}
	payment.CreatedAt = paymentModel.CreatedAt
	payment.UpdatedAt = paymentModel.UpdatedAt
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return r.findOne(ctx, "get payment by order id", "gateway_order_id = ?", orderID)
}

func (r *DefaultPaymentRepository) GetPaymentByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.findOne(ctx, "get payment by gateway payment id", "gateway_payment_id = ?", paymentID)
}

func (r *DefaultPaymentRepository) GetPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return r.findOne(ctx, "get payment by booking id", "booking_id = ?", bookingID)
}

func (r *DefaultPaymentRepository) LockPayment(ctx context.Context, id string) (*domain.Payment, error) {
	var payment models.PaymentModel
	err := conn(ctx, r.DB).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, translateError("lock payment", err)
	}
	return mappers.ToDomainPayment(&payment), nil
}

// TransitionPayment is a compare-and-set on status. Only the columns set in
// update are written.
func (r *DefaultPaymentRepository) TransitionPayment(ctx context.Context, id string, update domain.PaymentUpdate) (bool, error) {
	if len(update.From) == 0 {
		return false, nil
	}

	sources := make([]string, len(update.From))
	for i, status := range update.From {
		sources[i] = string(status)
	}

	columns := map[string]interface{}{
		"status":     string(update.To),
		"updated_at": time.Now(),
	}
	if update.PaymentID != nil {
		columns["gateway_payment_id"] = *update.PaymentID
	}
	if update.Signature != nil {
		columns["gateway_signature"] = *update.Signature
	}
	if update.Refund != nil {
		columns["refund_id"] = update.Refund.ID
		columns["refund_amount"] = update.Refund.Amount
	}

	result := conn(ctx, r.DB).Model(&models.PaymentModel{}).
		Where("id = ? AND status IN ?", id, sources).
		Updates(columns)
	if result.Error != nil {
		return false, translateError("transition payment", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *DefaultPaymentRepository) findOne(ctx context.Context, op, query string, arg string) (*domain.Payment, error) {
	var payment models.PaymentModel
	if err := conn(ctx, r.DB).First(&payment, query, arg).Error; err != nil {
		return nil, translateError(op, err)
	}
	return mappers.ToDomainPayment(&payment), nil
}
