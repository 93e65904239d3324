package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/queue"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failure struct {
	eventID string
	body    []byte
	reason  string
}

type stubUsecase struct {
	mu        sync.Mutex
	processed []string
	failures  []failure
	calls     int
	err       error
	done      chan struct{}
}

func (s *stubUsecase) ProcessWebhook(_ context.Context, eventID string, _ []byte) (domain.ReconcileOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.processed = append(s.processed, eventID)
	close(s.done)
	return domain.OutcomeApplied, nil
}

func (s *stubUsecase) RecordWebhookFailure(_ context.Context, eventID string, body []byte, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{eventID: eventID, body: body, reason: reason})
	close(s.done)
	return nil
}

func (s *stubUsecase) CreateOrder(context.Context, *paymentdto.CreateOrderInput) (*paymentdto.CreateOrderOutput, error) {
	return nil, nil
}

func (s *stubUsecase) VerifyPayment(context.Context, *paymentdto.VerifyPaymentInput) (*paymentdto.VerifyPaymentOutput, error) {
	return nil, nil
}

func (s *stubUsecase) AcceptWebhook(context.Context, *paymentdto.WebhookInput) (string, error) {
	return "", nil
}

func (s *stubUsecase) ApplyGatewayEvent(context.Context, domain.GatewayEvent) (*domain.TransitionResult, error) {
	return nil, nil
}

func (s *stubUsecase) RequeueWebhookEvents(context.Context) (int, error) {
	return 0, nil
}

func (s *stubUsecase) GetBookingByCode(context.Context, string) (*paymentdto.BookingOutput, error) {
	return nil, nil
}

func runRouter(t *testing.T, uc *stubUsecase) *queue.WebhookQueue {
	t.Helper()
	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	router, err := NewRouter(logger, pubSub, pubSub, NewHandler(uc), RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = router.Close()
		_ = pubSub.Close()
	})

	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	return queue.NewWebhookQueue(pubSub)
}

func waitDone(t *testing.T, done chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not handled")
	}
}

func TestRouter_ProcessesQueuedWebhook(t *testing.T) {
	uc := &stubUsecase{done: make(chan struct{})}
	webhookQueue := runRouter(t, uc)

	require.NoError(t, webhookQueue.Enqueue(context.Background(), "evt_1", []byte(`{"event":"payment.captured"}`)))
	waitDone(t, uc.done)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	assert.Equal(t, []string{"evt_1"}, uc.processed)
	assert.Empty(t, uc.failures)
}

func TestRouter_PoisonedWebhookIsRecorded(t *testing.T) {
	uc := &stubUsecase{
		done: make(chan struct{}),
		err:  errors.New("storage failure: connection reset"),
	}
	webhookQueue := runRouter(t, uc)

	body := []byte(`{"event":"payment.captured"}`)
	require.NoError(t, webhookQueue.Enqueue(context.Background(), "evt_2", body))
	waitDone(t, uc.done)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	// first attempt plus two retries
	assert.Equal(t, 3, uc.calls)
	require.Len(t, uc.failures, 1)
	assert.Equal(t, "evt_2", uc.failures[0].eventID)
	assert.Equal(t, body, uc.failures[0].body)
	assert.Contains(t, uc.failures[0].reason, "connection reset")
}
