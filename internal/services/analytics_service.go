package services

import (
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type AnalyticsOverview struct {
	Cases   *CaseDashboard   `json:"cases"`
	Tasks   *TaskAnalytics   `json:"tasks"`
	Reports *ReportAnalytics `json:"reports"`
}

// AnalyticsService is read-only. It composes the views of the other services
// and holds no state of its own.
type AnalyticsService interface {
	Overview(dbc dbctx.Context) (*AnalyticsOverview, error)
}

type analyticsService struct {
	log     *logger.Logger
	cases   CaseService
	tasks   TaskService
	reports ReportService
}

func NewAnalyticsService(baseLog *logger.Logger, cases CaseService, tasks TaskService, reports ReportService) AnalyticsService {
	return &analyticsService{
		log:     baseLog.With("service", "AnalyticsService"),
		cases:   cases,
		tasks:   tasks,
		reports: reports,
	}
}

func (s *analyticsService) Overview(dbc dbctx.Context) (*AnalyticsOverview, error) {
	dash, err := s.cases.DashboardStats(dbc)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.TaskAnalytics(dbc)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.ReportAnalytics(dbc)
	if err != nil {
		return nil, err
	}
	return &AnalyticsOverview{Cases: dash, Tasks: tasks, Reports: reports}, nil
}
