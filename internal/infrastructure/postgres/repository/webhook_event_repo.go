package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultWebhookEventRepository struct {
	DB *gorm.DB
}

func NewDefaultWebhookEventRepository(db *gorm.DB) *DefaultWebhookEventRepository {
	return &DefaultWebhookEventRepository{DB: db}
}

func (r *DefaultWebhookEventRepository) RecordReceived(ctx context.Context, event *domain.WebhookEvent) error {
	now := time.Now()
	model := mappers.ToGORMWebhookEvent(event)
	model.Status = string(domain.WebhookEventReceived)
	model.ReceivedAt = now
	model.UpdatedAt = now

	err := conn(ctx, r.DB).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     string(domain.WebhookEventReceived),
			"updated_at": now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "webhook_events", Name: "status"}, Value: string(domain.WebhookEventFailed)},
		}},
	}).Create(model).Error
	if err != nil {
		return translateError("record webhook event", err)
	}

	var stored models.WebhookEventModel
	if err := conn(ctx, r.DB).First(&stored, "id = ?", event.ID).Error; err != nil {
		return translateError("record webhook event", err)
	}
	if domain.WebhookEventStatus(stored.Status).IsFinal() {
		return domain.ErrEventAlreadyProcessed
	}

	return nil
}

func (r *DefaultWebhookEventRepository) MarkHandled(ctx context.Context, eventID, eventName string, status domain.WebhookEventStatus) error {
	if !status.IsFinal() {
		return errors.New("mark handled: status is not final: " + string(status))
	}

	now := time.Now()
	err := conn(ctx, r.DB).Model(&models.WebhookEventModel{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"event":        eventName,
			"status":       string(status),
			"last_error":   "",
			"processed_at": now,
			"updated_at":   now,
		}).Error
	if err != nil {
		return translateError("mark webhook event handled", err)
	}
	return nil
}

func (r *DefaultWebhookEventRepository) MarkFailed(ctx context.Context, eventID string, payload []byte, reason string) error {
	now := time.Now()
	model := &models.WebhookEventModel{
		ID:         eventID,
		Payload:    payload,
		Status:     string(domain.WebhookEventFailed),
		Attempts:   1,
		LastError:  reason,
		ReceivedAt: now,
		UpdatedAt:  now,
	}

	err := conn(ctx, r.DB).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     string(domain.WebhookEventFailed),
			"last_error": reason,
			"attempts":   gorm.Expr("webhook_events.attempts + 1"),
			"updated_at": now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "webhook_events.status NOT IN ('PROCESSED', 'IGNORED', 'ORPHANED')"},
		}},
	}).Create(model).Error
	if err != nil {
		return translateError("mark webhook event failed", err)
	}
	return nil
}

func (r *DefaultWebhookEventRepository) FindRetryable(ctx context.Context, maxAttempts int, staleBefore time.Time, limit int) ([]*domain.WebhookEvent, error) {
	var eventModels []*models.WebhookEventModel
	err := conn(ctx, r.DB).
		Where("(status = ? AND attempts < ?) OR (status = ? AND updated_at < ?)",
			string(domain.WebhookEventFailed), maxAttempts,
			string(domain.WebhookEventReceived), staleBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, translateError("find retryable webhook events", err)
	}

	events := make([]*domain.WebhookEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = mappers.ToDomainWebhookEvent(model)
	}
	return events, nil
}

func (r *DefaultWebhookEventRepository) GetWebhookEvent(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	var model models.WebhookEventModel
	if err := conn(ctx, r.DB).First(&model, "id = ?", eventID).Error; err != nil {
		return nil, translateError("get webhook event", err)
	}
	return mappers.ToDomainWebhookEvent(&model), nil
}
