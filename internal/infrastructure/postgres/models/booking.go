package models

import "time"

type BookingModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	Code               string `gorm:"size:32;not null;uniqueIndex:idx_bookings_code"`
	UserID             string `gorm:"not null;index:idx_bookings_user_id"`
	TripID             string `gorm:"not null"`
	QuotationID        string `gorm:"not null"`
	Amount             int64  `gorm:"not null"`
	Currency           string `gorm:"size:3;not null"`
	TaxPercentage      float64
	TaxAmount          int64
	CouponCode         string
	CouponDiscount     int64
	Discount           int64
	AdditionalDiscount int64
	FinalAmount        int64
	Status             string `gorm:"size:16;not null;index:idx_bookings_status"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (BookingModel) TableName() string {
	return "bookings"
}
