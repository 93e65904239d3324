package postgres

import (
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.PaymentConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PaymentDB.Dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	// Without migrations the schema comes from the models.
	if cfg.PaymentDB.MigrationsPath == "" {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func MustInitDB(cfg *config.PaymentConfig) *gorm.DB {
	db, err := InitDB(cfg)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return db
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.BookingModel{},
		&models.PaymentModel{},
		&models.WebhookEventModel{},
		&models.OrphanedOrderModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
