package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestPaymentRepository_TransitionPayment(t *testing.T) {
	ctx := context.Background()
	paymentID := "pay_123"

	t.Run("applies when current status is in the source set", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.TransitionPayment(ctx, "p1", domain.PaymentUpdate{
			To:        domain.PaymentStatusSuccess,
			From:      domain.PaymentStatusesBelow(domain.PaymentStatusSuccess),
			PaymentID: &paymentID,
		})
		require.NoError(t, err)
		assert.True(t, applied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale write changes nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.TransitionPayment(ctx, "p1", domain.PaymentUpdate{
			To:   domain.PaymentStatusAuthorized,
			From: domain.PaymentStatusesBelow(domain.PaymentStatusAuthorized),
		})
		require.NoError(t, err)
		assert.False(t, applied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty source set never touches storage", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		applied, err := repo.TransitionPayment(ctx, "p1", domain.PaymentUpdate{To: domain.PaymentStatusCreated})
		require.NoError(t, err)
		assert.False(t, applied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refund details are written with the status", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectExec(`UPDATE "payments" SET .*"refund_amount"=.*"refund_id"=.*"status"=`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.TransitionPayment(ctx, "p1", domain.PaymentUpdate{
			To:     domain.PaymentStatusRefunded,
			From:   domain.PaymentStatusesBelow(domain.PaymentStatusRefunded),
			Refund: &domain.Refund{ID: "rfnd_1", Amount: 1000},
		})
		require.NoError(t, err)
		assert.True(t, applied)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage error is a storage failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.TransitionPayment(ctx, "p1", domain.PaymentUpdate{
			To:   domain.PaymentStatusRefunded,
			From: domain.PaymentStatusesBelow(domain.PaymentStatusRefunded),
		})
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
	})
}

func TestPaymentRepository_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("by order id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		rows := sqlmock.NewRows([]string{"id", "user_id", "booking_id", "amount", "currency", "mode", "gateway_order_id", "status"}).
			AddRow("p1", "u1", "b1", 1000, "INR", "RAZORPAY", "order_abc", "CREATED")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE gateway_order_id = $1`)).
			WithArgs("order_abc", sqlmock.AnyArg()).
			WillReturnRows(rows)

		payment, err := repo.GetPaymentByOrderID(ctx, "order_abc")
		require.NoError(t, err)
		assert.Equal(t, "p1", payment.ID)
		assert.Equal(t, "order_abc", payment.Gateway.OrderID)
		assert.Equal(t, domain.PaymentStatusCreated, payment.Status)
		assert.Nil(t, payment.Gateway.PaymentID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE gateway_order_id = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetPaymentByOrderID(ctx, "order_missing")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("lock takes a row lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultPaymentRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("p1", "CAPTURED"))

		payment, err := repo.LockPayment(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCaptured, payment.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_TransitionBooking(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewDefaultBookingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.TransitionBooking(ctx, "b1", domain.BookingStatusConfirmed, domain.TransitionPaymentCaptured.BookingFrom)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.TransitionBooking(ctx, "b1", domain.BookingStatusConfirmed, domain.TransitionPaymentCaptured.BookingFrom)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_CreatesBookingAndPaymentTogether(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	txManager := NewGormTxManager(db)
	bookings := NewDefaultBookingRepository(db)
	payments := NewDefaultPaymentRepository(db)

	booking := &domain.Booking{
		ID:         uuid.New().String(),
		Code:       "ABCD123456",
		UserID:     "u1",
		Financials: domain.FinancialSnapshot{Amount: 1000, Currency: "INR"},
		Status:     domain.BookingStatusCreated,
	}
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Amount:    1000,
		Currency:  "INR",
		Gateway:   domain.GatewayDetails{OrderID: "order_abc"},
		Status:    domain.PaymentStatusCreated,
	}

	t.Run("commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "bookings"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := bookings.CreateBooking(ctx, booking); err != nil {
				return err
			}
			return payments.CreatePayment(ctx, payment)
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("payment insert failure rolls back the booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "bookings"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_payments_gateway_order_id"`))
		mock.ExpectRollback()

		err := txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := bookings.CreateBooking(ctx, booking); err != nil {
				return err
			}
			return payments.CreatePayment(ctx, payment)
		})
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking code collision is a duplicate record", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_bookings_code"})
		mock.ExpectRollback()

		err := txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			return bookings.CreateBooking(ctx, booking)
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateRecord)
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure is a storage failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := txManager.WithinTransaction(ctx, func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, domain.ErrStorageFailure)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebhookEventRepository_RecordReceived(t *testing.T) {
	ctx := context.Background()

	t.Run("new event", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultWebhookEventRepository(db)

		mock.ExpectExec(`INSERT INTO "webhook_events" .* ON CONFLICT \("id"\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "webhook_events" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "attempts"}).AddRow("evt_1", "RECEIVED", 0))

		err := repo.RecordReceived(ctx, &domain.WebhookEvent{ID: "evt_1", Payload: []byte(`{}`)})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already processed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDefaultWebhookEventRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "webhook_events"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "webhook_events" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "status", "attempts"}).AddRow("evt_1", "PROCESSED", 0))

		err := repo.RecordReceived(ctx, &domain.WebhookEvent{ID: "evt_1", Payload: []byte(`{}`)})
		assert.ErrorIs(t, err, domain.ErrEventAlreadyProcessed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebhookEventRepository_MarkFailedUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultWebhookEventRepository(db)

	mock.ExpectExec(`INSERT INTO "webhook_events" .* ON CONFLICT \("id"\) DO UPDATE SET .*attempts.*webhook_events.attempts \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkFailed(context.Background(), "evt_1", []byte(`{}`), "boom")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookEventRepository_MarkHandledRejectsNonFinalStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultWebhookEventRepository(db)

	err := repo.MarkHandled(context.Background(), "evt_1", "payment.captured", domain.WebhookEventFailed)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookEventRepository_FindRetryable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDefaultWebhookEventRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "webhook_events" WHERE .*status = \$1 AND attempts < \$2.*status = \$3 AND updated_at < \$4.* ORDER BY updated_at ASC LIMIT \$5`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "attempts", "payload"}).
			AddRow("evt_1", "FAILED", 2, []byte(`{"event":"payment.captured"}`)))

	events, err := repo.FindRetryable(context.Background(), 5, time.Now().Add(-time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt_1", events[0].ID)
	assert.Equal(t, domain.WebhookEventFailed, events[0].Status)
	assert.Equal(t, 2, events[0].Attempts)
	require.NoError(t, mock.ExpectationsWereMet())
}
