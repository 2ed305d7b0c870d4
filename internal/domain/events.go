package domain

import "time"

const (
	EventTaskCompleted     = "task.completed"
	EventTaskOverdueMarked = "task.overdue_marked"
	EventReportSummarized  = "report.summarized"
	EventSummaryBatchDone  = "report.summary_batch_done"
)

// Event is a domain notification fanned out to subscribers.
type Event struct {
	Type       string                 `json:"type"`
	EntityID   uint                   `json:"entity_id,omitempty"`
	CaseID     uint                   `json:"case_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
