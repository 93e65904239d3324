package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/metrics"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	nanoid "github.com/jaevor/go-nanoid"
)

// bookingCodeAlphabet drops characters that are easy to misread.
const bookingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type PaymentUsecase interface {
	CreateOrder(ctx context.Context, input *paymentdto.CreateOrderInput) (*paymentdto.CreateOrderOutput, error)
	VerifyPayment(ctx context.Context, input *paymentdto.VerifyPaymentInput) (*paymentdto.VerifyPaymentOutput, error)

	AcceptWebhook(ctx context.Context, input *paymentdto.WebhookInput) (string, error)
	ProcessWebhook(ctx context.Context, eventID string, body []byte) (domain.ReconcileOutcome, error)
	ApplyGatewayEvent(ctx context.Context, event domain.GatewayEvent) (*domain.TransitionResult, error)
	RecordWebhookFailure(ctx context.Context, eventID string, body []byte, reason string) error
	RequeueWebhookEvents(ctx context.Context) (int, error)

	GetBookingByCode(ctx context.Context, code string) (*paymentdto.BookingOutput, error)
}

type Config struct {
	KeyID             string
	DefaultCurrency   string
	BookingCodeLength int
	// requeue of webhook events that never reached a final status
	RequeueMaxAttempts int
	RequeueBatchSize   int
	RequeueStaleAfter  time.Duration
}

type DefaultPaymentUsecase struct {
	TxManager         domain.TxManager
	BookingRepo       domain.BookingRepository
	PaymentRepo       domain.PaymentRepository
	WebhookEventRepo  domain.WebhookEventRepository
	OrphanedOrderRepo domain.OrphanedOrderRepository
	Gateway           domain.PaymentGateway
	Verifier          domain.SignatureVerifier
	Decoder           domain.GatewayEventDecoder
	Queue             domain.WebhookQueue
	Publisher         domain.EventPublisher
	Metrics           *metrics.PaymentMetrics
	Config            Config

	newBookingCode func() string
	now            func() time.Time
}

func NewDefaultPaymentUsecase(
	txManager domain.TxManager,
	bookingRepo domain.BookingRepository,
	paymentRepo domain.PaymentRepository,
	webhookEventRepo domain.WebhookEventRepository,
	orphanedOrderRepo domain.OrphanedOrderRepository,
	gateway domain.PaymentGateway,
	verifier domain.SignatureVerifier,
	decoder domain.GatewayEventDecoder,
	queue domain.WebhookQueue,
	publisher domain.EventPublisher,
	paymentMetrics *metrics.PaymentMetrics,
	cfg Config,
) (*DefaultPaymentUsecase, error) {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	if cfg.BookingCodeLength == 0 {
		cfg.BookingCodeLength = 10
	}
	if cfg.RequeueMaxAttempts == 0 {
		cfg.RequeueMaxAttempts = 5
	}
	if cfg.RequeueBatchSize == 0 {
		cfg.RequeueBatchSize = 50
	}
	if cfg.RequeueStaleAfter == 0 {
		cfg.RequeueStaleAfter = 5 * time.Minute
	}

	newBookingCode, err := nanoid.CustomASCII(bookingCodeAlphabet, cfg.BookingCodeLength)
	if err != nil {
		return nil, fmt.Errorf("booking code generator: %w", err)
	}

	return &DefaultPaymentUsecase{
		TxManager:         txManager,
		BookingRepo:       bookingRepo,
		PaymentRepo:       paymentRepo,
		WebhookEventRepo:  webhookEventRepo,
		OrphanedOrderRepo: orphanedOrderRepo,
		Gateway:           gateway,
		Verifier:          verifier,
		Decoder:           decoder,
		Queue:             queue,
		Publisher:         publisher,
		Metrics:           paymentMetrics,
		Config:            cfg,
		newBookingCode:    newBookingCode,
		now:               time.Now,
	}, nil
}
