package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type Services struct {
	Case      services.CaseService
	Task      services.TaskService
	Report    services.ReportService
	Analytics services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	schedule, err := services.LoadBenefitSchedule(cfg.BenefitScheduleFile)
	if err != nil {
		return Services{}, err
	}
	if err := schedule.Validate(); err != nil {
		return Services{}, fmt.Errorf("benefit schedule: %w", err)
	}
	if cfg.BenefitScheduleFile != "" {
		log.Info("Loaded benefit schedule", "file", cfg.BenefitScheduleFile)
	}

	var events services.EventPublisher = services.NoopPublisher()
	if clients.EventBus != nil {
		events = clients.EventBus
	}

	caseService := services.NewCaseService(db, log, reposet.Case, schedule, nil)
	taskService := services.NewTaskService(db, log, reposet.Task, reposet.Case, events, nil)
	reportService := services.NewReportService(db, log, reposet.Report, reposet.Case, clients.Summarizer, events, nil, services.ReportServiceOptions{
		SummaryTimeout:   cfg.SummarizerTimeout(),
		BatchConcurrency: cfg.SummaryBatchConcurrency,
	})
	analyticsService := services.NewAnalyticsService(log, caseService, taskService, reportService)

	return Services{
		Case:      caseService,
		Task:      taskService,
		Report:    reportService,
		Analytics: analyticsService,
	}, nil
}
