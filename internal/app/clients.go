package app

import (
	"fmt"

	"github.com/Rsplitstone/compcase-backend/internal/clients/redis"
	"github.com/Rsplitstone/compcase-backend/internal/clients/summarizer"
	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type Clients struct {
	Summarizer summarizer.Engine
	// Nil when REDIS_ADDR is unset.
	EventBus redis.EventBus
}

func wireClients(cfg Config, log *logger.Logger, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	switch cfg.SummarizerMode {
	case "mock":
		log.Warn("Using mock summarizer")
		out.Summarizer = summarizer.NewMock()
	default:
		c, err := summarizer.New(summarizer.Options{
			BaseURL: cfg.SummarizerBaseURL,
			APIKey:  cfg.SummarizerAPIKey,
			Timeout: cfg.SummarizerTimeout(),
		})
		if err != nil {
			return out, fmt.Errorf("init summarizer client: %w", err)
		}
		log.Info("Summarizer client ready", "base_url", c.BaseURL())
		out.Summarizer = c
	}
	out.Summarizer = summarizer.Observe(out.Summarizer, metrics.ObserveSummarizerCall)

	if cfg.RedisAddr != "" {
		bus, err := redis.NewEventBus(log, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Channel:  cfg.RedisChannel,
		})
		if err != nil {
			return out, fmt.Errorf("init redis event bus: %w", err)
		}
		out.EventBus = bus
	} else {
		log.Info("REDIS_ADDR unset; domain events are dropped")
	}
	return out, nil
}

func (c Clients) Close() {
	if c.EventBus != nil {
		_ = c.EventBus.Close()
	}
}
