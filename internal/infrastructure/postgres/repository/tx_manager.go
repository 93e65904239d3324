package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type txKey struct{}

type GormTxManager struct {
	DB *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{DB: db}
}

// WithinTransaction runs fn in a transaction carried by the context. A nested
// call joins the outer transaction.
func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	tx := m.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrStorageFailure, tx.Error)
	}

	var committed bool
	defer func() {
		if !committed {
			if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
				logrus.WithError(err).Error("failed to rollback transaction")
			}
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrStorageFailure, err)
	}
	committed = true

	return nil
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

func translateError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrRecordNotFound)
	}
	// needs gorm.Config.TranslateError
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %w: %v", op, domain.ErrStorageFailure, domain.ErrDuplicateRecord, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageFailure, err)
}
