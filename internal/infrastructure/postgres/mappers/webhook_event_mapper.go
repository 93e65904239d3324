package mappers

import (
	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/postgres/models"
)

func ToDomainWebhookEvent(model *models.WebhookEventModel) *domain.WebhookEvent {
	return &domain.WebhookEvent{
		ID:          model.ID,
		Event:       model.Event,
		Payload:     model.Payload,
		Status:      domain.WebhookEventStatus(model.Status),
		Attempts:    model.Attempts,
		LastError:   model.LastError,
		ReceivedAt:  model.ReceivedAt,
		ProcessedAt: model.ProcessedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ToGORMWebhookEvent(event *domain.WebhookEvent) *models.WebhookEventModel {
	return &models.WebhookEventModel{
		ID:          event.ID,
		Event:       event.Event,
		Payload:     event.Payload,
		Status:      string(event.Status),
		Attempts:    event.Attempts,
		LastError:   event.LastError,
		ReceivedAt:  event.ReceivedAt,
		ProcessedAt: event.ProcessedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
