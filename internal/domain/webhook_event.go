package domain

import (
	"context"
	"time"
)

type WebhookEventStatus string

const (
	WebhookEventReceived  WebhookEventStatus = "RECEIVED"
	WebhookEventProcessed WebhookEventStatus = "PROCESSED"
	WebhookEventIgnored   WebhookEventStatus = "IGNORED"
	WebhookEventOrphaned  WebhookEventStatus = "ORPHANED"
	WebhookEventFailed    WebhookEventStatus = "FAILED"
)

// IsFinal reports whether the event needs no further processing.
func (s WebhookEventStatus) IsFinal() bool {
	switch s {
	case WebhookEventProcessed, WebhookEventIgnored, WebhookEventOrphaned:
		return true
	}
	return false
}

type WebhookEvent struct {
	ID          string
	Event       string
	Payload     []byte
	Status      WebhookEventStatus
	Attempts    int
	LastError   string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	UpdatedAt   time.Time
}

type WebhookEventRepository interface {
	// RecordReceived stores the event if it is new and moves a FAILED event
	// back to RECEIVED. It returns ErrEventAlreadyProcessed when the event
	// already reached a final status.
	RecordReceived(ctx context.Context, event *WebhookEvent) error
	MarkHandled(ctx context.Context, eventID, eventName string, status WebhookEventStatus) error
	// MarkFailed upserts the event as FAILED and bumps its attempt counter.
	MarkFailed(ctx context.Context, eventID string, payload []byte, reason string) error
	// FindRetryable lists FAILED events below maxAttempts and RECEIVED events
	// untouched since staleBefore.
	FindRetryable(ctx context.Context, maxAttempts int, staleBefore time.Time, limit int) ([]*WebhookEvent, error)
	GetWebhookEvent(ctx context.Context, eventID string) (*WebhookEvent, error)
}

// WebhookQueue hands a verified webhook body to the background worker.
type WebhookQueue interface {
	Enqueue(ctx context.Context, eventID string, body []byte) error
}
