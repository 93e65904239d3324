package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/queue"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/razorpay"
	usecase "github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
)

type UseCases struct {
	PaymentUsecase usecase.PaymentUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	gateway := razorpay.NewHTTPClient(
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.Timeout,
	)
	verifier := razorpay.NewVerifier(cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret)

	paymentUsecase, err := usecase.NewDefaultPaymentUsecase(
		deps.Repositories.TxManager,
		deps.Repositories.BookingRepo,
		deps.Repositories.PaymentRepo,
		deps.Repositories.WebhookEventRepo,
		deps.Repositories.OrphanedOrderRepo,
		gateway,
		verifier,
		razorpay.EventDecoder{},
		queue.NewWebhookQueue(deps.PubSub.Publisher),
		deps.Publisher,
		deps.Metrics,
		usecase.Config{
			KeyID:              cfg.Razorpay.KeyID,
			DefaultCurrency:    cfg.Razorpay.DefaultCurrency,
			BookingCodeLength:  cfg.Booking.CodeLength,
			RequeueMaxAttempts: cfg.Reconciler.MaxAttempts,
			RequeueBatchSize:   cfg.Reconciler.BatchSize,
			RequeueStaleAfter:  cfg.Reconciler.StaleAfter,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("payment usecase: %w", err)
	}

	return &UseCases{
		PaymentUsecase: paymentUsecase,
	}, nil
}
