package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Case registry
		// =========================
		&domain.WorkersCompCase{},

		// =========================
		// Task lifecycle
		// =========================
		&domain.CaseTask{},

		// =========================
		// Medical reports
		// =========================
		&domain.AMEReport{},
	)
}

// EnsureTaskIndexes adds composite indexes the per-assignee and per-case
// queries lean on.
func EnsureTaskIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_task_assignee_status_due
		ON case_task (assigned_to, status, due_date);
	`).Error; err != nil {
		return fmt.Errorf("create idx_case_task_assignee_status_due: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_task_case_status
		ON case_task (case_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_case_task_case_status: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureTaskIndexes(s.db); err != nil {
		s.log.Error("Task index migration failed", "error", err)
		return err
	}
	return nil
}
