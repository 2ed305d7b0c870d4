package redis

import (
	"context"
	"testing"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

func TestNewEventBusRequiresAddr(t *testing.T) {
	if _, err := NewEventBus(logger.Nop(), Options{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
	if _, err := NewEventBus(nil, Options{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestUninitializedBus(t *testing.T) {
	var b *eventBus
	if err := b.Publish(context.Background(), domain.Event{Type: domain.EventTaskCompleted}); err == nil {
		t.Fatalf("expected publish on nil bus to fail")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close on nil bus: %v", err)
	}
}
