package models

import (
	"time"
)

type OrphanedOrderModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	GatewayOrderID string `gorm:"index:idx_orphaned_orders_gateway_order_id"`
	Amount         int64
	Currency       string
	Receipt        string
	UserID         string `gorm:"index:idx_orphaned_orders_user_id"`
	TripID         string
	QuotationID    string
	ErrorMessage   string
	CreatedAt      time.Time `gorm:"index:idx_orphaned_orders_created_at"`
}

func (OrphanedOrderModel) TableName() string {
	return "orphaned_orders"
}
