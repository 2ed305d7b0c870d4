package services

import (
	"context"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

// EventPublisher fans domain events out to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) error { return nil }

// NoopPublisher drops every event.
func NoopPublisher() EventPublisher { return noopPublisher{} }

// publishBestEffort never fails the calling operation; a broken bus only
// costs a warning.
func publishBestEffort(ctx context.Context, log *logger.Logger, pub EventPublisher, evt domain.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, evt); err != nil {
		log.Warn("Publish event failed", "event_type", evt.Type, "entity_id", evt.EntityID, "error", err)
	}
}
