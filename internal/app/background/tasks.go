package background

import (
	"context"
	"time"

	usecase "github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
	"github.com/sirupsen/logrus"
)

type BackgroundTasks struct {
	PaymentUsecase  usecase.PaymentUsecase
	RequeueInterval time.Duration
}

func NewBackgroundTasks(paymentUC usecase.PaymentUsecase, requeueInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		PaymentUsecase:  paymentUC,
		RequeueInterval: requeueInterval,
	}
}

// Run blocks until ctx is cancelled.
func (bt *BackgroundTasks) Run(ctx context.Context) error {
	bt.startWebhookRequeue(ctx)
	return nil
}

// startWebhookRequeue puts failed and stalled webhook events back on the
// queue.
func (bt *BackgroundTasks) startWebhookRequeue(ctx context.Context) {
	ticker := time.NewTicker(bt.RequeueInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := bt.PaymentUsecase.RequeueWebhookEvents(ctx)
			if err != nil {
				logrus.WithError(err).WithField("requeued", n).Error("webhook requeue failed")
			}
		}
	}
}
