package domain

import (
	"time"

	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeDocumentReview        TaskType = "DOCUMENT_REVIEW"
	TaskTypeMedicalReview         TaskType = "MEDICAL_REVIEW"
	TaskTypeDeadlineCompliance    TaskType = "DEADLINE_COMPLIANCE"
	TaskTypeBenefitCalculation    TaskType = "BENEFIT_CALCULATION"
	TaskTypeCorrespondence        TaskType = "CORRESPONDENCE"
	TaskTypeSettlementNegotiation TaskType = "SETTLEMENT_NEGOTIATION"
	TaskTypeCourtFiling           TaskType = "COURT_FILING"
	TaskTypeAMEScheduling         TaskType = "AME_SCHEDULING"
)

var taskTypes = []TaskType{
	TaskTypeDocumentReview,
	TaskTypeMedicalReview,
	TaskTypeDeadlineCompliance,
	TaskTypeBenefitCalculation,
	TaskTypeCorrespondence,
	TaskTypeSettlementNegotiation,
	TaskTypeCourtFiling,
	TaskTypeAMEScheduling,
}

func (t TaskType) Valid() bool {
	for _, v := range taskTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ParseTaskType(raw string) (TaskType, error) {
	t := TaskType(normalizeEnum(raw))
	if !t.Valid() {
		return "", invalidEnum("task type", raw)
	}
	return t, nil
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Rank orders priorities so that a larger value is more pressing.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityUrgent:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

func (p TaskPriority) Valid() bool { return p.Rank() > 0 }

func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(normalizeEnum(raw))
	if !p.Valid() {
		return "", invalidEnum("task priority", raw)
	}
	return p, nil
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
	TaskStatusOverdue    TaskStatus = "OVERDUE"
)

var taskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
	TaskStatusOverdue,
}

func (s TaskStatus) Valid() bool {
	for _, v := range taskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Closed reports whether the task can no longer become overdue.
func (s TaskStatus) Closed() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Sweepable reports whether the overdue sweep may move the task to OVERDUE.
func (s TaskStatus) Sweepable() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(normalizeEnum(raw))
	if !s.Valid() {
		return "", invalidEnum("task status", raw)
	}
	return s, nil
}

// ClosedTaskStatuses are excluded from overdue classification.
func ClosedTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusCompleted, TaskStatusCancelled}
}

// SweepableTaskStatuses are the statuses the overdue sweep rewrites.
func SweepableTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress}
}

// CaseTask is a unit of work scheduled against a case.
type CaseTask struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CaseID      uint         `gorm:"column:case_id;not null;index" json:"case_id"`
	Title       string       `gorm:"column:title;not null" json:"title"`
	Description string       `gorm:"column:description;type:text" json:"description,omitempty"`
	TaskType    TaskType     `gorm:"column:task_type;type:varchar(32);not null;index" json:"task_type"`
	Priority    TaskPriority `gorm:"column:priority;type:varchar(16);not null;index" json:"priority"`
	Status      TaskStatus   `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	DueDate     time.Time    `gorm:"column:due_date;type:date;not null;index" json:"due_date"`
	AssignedTo  string       `gorm:"column:assigned_to;index" json:"assigned_to,omitempty"`
	Notes       string       `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
	CompletedAt *time.Time   `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (CaseTask) TableName() string { return "case_task" }

func (t *CaseTask) BeforeSave(tx *gorm.DB) error {
	t.DueDate = Day(t.DueDate)
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	return nil
}
