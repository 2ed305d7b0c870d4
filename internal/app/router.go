package app

import (
	"github.com/Rsplitstone/compcase-backend/internal/http"
	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlerset Handlers) *http.Server {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		CaseHandler:      handlerset.Case,
		TaskHandler:      handlerset.Task,
		ReportHandler:    handlerset.Report,
		AnalyticsHandler: handlerset.Analytics,
		HealthHandler:    handlerset.Health,
	})
}
