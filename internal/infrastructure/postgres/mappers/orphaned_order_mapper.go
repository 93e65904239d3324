package mappers

import (
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

func ToGORMOrphanedOrder(order *domain.OrphanedOrder) *models.OrphanedOrderModel {
	return &models.OrphanedOrderModel{
		ID:             order.ID,
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Receipt:        order.Receipt,
		UserID:         order.UserID,
		TripID:         order.TripID,
		QuotationID:    order.QuotationID,
		ErrorMessage:   order.ErrorMessage,
		CreatedAt:      order.CreatedAt,
	}
}
