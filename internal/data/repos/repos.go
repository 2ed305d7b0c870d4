package repos

import (
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos/cases"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos/reports"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos/tasks"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type WorkersCompCaseRepo = cases.WorkersCompCaseRepo
type CaseTaskRepo = tasks.CaseTaskRepo
type AMEReportRepo = reports.AMEReportRepo

func NewWorkersCompCaseRepo(db *gorm.DB, baseLog *logger.Logger) WorkersCompCaseRepo {
	return cases.NewWorkersCompCaseRepo(db, baseLog)
}

func NewCaseTaskRepo(db *gorm.DB, baseLog *logger.Logger) CaseTaskRepo {
	return tasks.NewCaseTaskRepo(db, baseLog)
}

func NewAMEReportRepo(db *gorm.DB, baseLog *logger.Logger) AMEReportRepo {
	return reports.NewAMEReportRepo(db, baseLog)
}
