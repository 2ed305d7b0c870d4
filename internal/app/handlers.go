package app

import (
	httpH "github.com/Rsplitstone/compcase-backend/internal/http/handlers"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Case      *httpH.CaseHandler
	Task      *httpH.TaskHandler
	Report    *httpH.ReportHandler
	Analytics *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Case:      httpH.NewCaseHandler(services.Case),
		Task:      httpH.NewTaskHandler(services.Task),
		Report:    httpH.NewReportHandler(services.Report),
		Analytics: httpH.NewAnalyticsHandler(services.Analytics),
	}
}
