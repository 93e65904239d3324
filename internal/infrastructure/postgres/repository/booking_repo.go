package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultBookingRepository struct {
	DB *gorm.DB
}

func NewDefaultBookingRepository(db *gorm.DB) *DefaultBookingRepository {
	return &DefaultBookingRepository{DB: db}
}

func (r *DefaultBookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	bookingModel := mappers.ToGORMBooking(booking)
	if err := conn(ctx, r.DB).Create(bookingModel).Error; err != nil {
		return translateError("create booking", err)
	}
	booking.CreatedAt = bookingModel.CreatedAt
	booking.UpdatedAt = bookingModel.UpdatedAt
	return nil
}

func (r *DefaultBookingRepository) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var booking models.BookingModel
	if err := conn(ctx, r.DB).First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, translateError("get booking by id", err)
	}
	return mappers.ToDomainBooking(&booking), nil
}

func (r *DefaultBookingRepository) GetBookingByCode(ctx context.Context, code string) (*domain.Booking, error) {
	var booking models.BookingModel
	if err := conn(ctx, r.DB).First(&booking, "code = ?", code).Error; err != nil {
		return nil, translateError("get booking by code", err)
	}
	return mappers.ToDomainBooking(&booking), nil
}

func (r *DefaultBookingRepository) TransitionBooking(ctx context.Context, bookingID string, to domain.BookingStatus, from []domain.BookingStatus) (bool, error) {
	if len(from) == 0 {
		return false, nil
	}

	sources := make([]string, len(from))
	for i, status := range from {
		sources[i] = string(status)
	}

	result := conn(ctx, r.DB).Model(&models.BookingModel{}).
		Where("id = ? AND status IN ?", bookingID, sources).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, translateError("transition booking", result.Error)
	}

	return result.RowsAffected > 0, nil
}
