package app

import (
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type Repos struct {
	Case   repos.WorkersCompCaseRepo
	Task   repos.CaseTaskRepo
	Report repos.AMEReportRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Case:   repos.NewWorkersCompCaseRepo(db, log),
		Task:   repos.NewCaseTaskRepo(db, log),
		Report: repos.NewAMEReportRepo(db, log),
	}
}
