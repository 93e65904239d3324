package models

import "time"

// WebhookEventModel is keyed by the gateway's event id.
type WebhookEventModel struct {
	ID          string `gorm:"primaryKey"`
	Event       string `gorm:"size:64"`
	Payload     []byte `gorm:"type:bytea"`
	Status      string `gorm:"size:16;not null;index:idx_webhook_events_status"`
	Attempts    int    `gorm:"not null"`
	LastError   string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
	UpdatedAt   time.Time
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}
