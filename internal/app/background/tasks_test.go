package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	paymentdto "github.com/LavaJover/shvark-payment-service/internal/usecase/dto/payment"
	"github.com/stretchr/testify/assert"
)

type countingUsecase struct {
	requeues atomic.Int32
}

func (c *countingUsecase) RequeueWebhookEvents(context.Context) (int, error) {
	c.requeues.Add(1)
	return 0, nil
}

func (c *countingUsecase) CreateOrder(context.Context, *paymentdto.CreateOrderInput) (*paymentdto.CreateOrderOutput, error) {
	return nil, nil
}

func (c *countingUsecase) VerifyPayment(context.Context, *paymentdto.VerifyPaymentInput) (*paymentdto.VerifyPaymentOutput, error) {
	return nil, nil
}

func (c *countingUsecase) AcceptWebhook(context.Context, *paymentdto.WebhookInput) (string, error) {
	return "", nil
}

func (c *countingUsecase) ProcessWebhook(context.Context, string, []byte) (domain.ReconcileOutcome, error) {
	return "", nil
}

func (c *countingUsecase) ApplyGatewayEvent(context.Context, domain.GatewayEvent) (*domain.TransitionResult, error) {
	return nil, nil
}

func (c *countingUsecase) RecordWebhookFailure(context.Context, string, []byte, string) error {
	return nil
}

func (c *countingUsecase) GetBookingByCode(context.Context, string) (*paymentdto.BookingOutput, error) {
	return nil, nil
}

func TestBackgroundTasks_RequeuesUntilCancelled(t *testing.T) {
	uc := &countingUsecase{}
	tasks := NewBackgroundTasks(uc, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- tasks.Run(ctx) }()

	assert.Eventually(t, func() bool { return uc.requeues.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("background tasks did not stop")
	}
}
