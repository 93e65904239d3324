package repository

import (
	"context"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"gorm.io/gorm"
)

type DefaultOrphanedOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrphanedOrderRepository(db *gorm.DB) *DefaultOrphanedOrderRepository {
	return &DefaultOrphanedOrderRepository{
		DB: db,
	}
}

// LogOrphanedOrder never joins a caller's transaction: it records the fact
// that one was rolled back.
func (r *DefaultOrphanedOrderRepository) LogOrphanedOrder(ctx context.Context, order *domain.OrphanedOrder) error {
	model := mappers.ToGORMOrphanedOrder(order)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("log orphaned order", err)
	}
	return nil
}
