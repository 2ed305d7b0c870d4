package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

// noteTimeLayout stamps entries appended by AddNotes.
const noteTimeLayout = "2006-01-02T15:04:05"

type NewTaskInput struct {
	CaseID      uint
	Title       string
	Description string
	TaskType    domain.TaskType
	DueDate     time.Time
	Priority    domain.TaskPriority
	AssignedTo  string
}

type TaskAnalytics struct {
	TotalTasks      int64 `json:"total_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	OverdueTasks    int64 `json:"overdue_tasks"`
	DueToday        int64 `json:"due_today"`
	DueThisWeek     int64 `json:"due_this_week"`
}

type standardTask struct {
	title    string
	taskType domain.TaskType
	offset   int
	priority domain.TaskPriority
}

// Seeded for every new case, in this order.
var standardTasks = []standardTask{
	{"Initial Case Review", domain.TaskTypeDocumentReview, 1, domain.TaskPriorityHigh},
	{"Medical Records Review", domain.TaskTypeMedicalReview, 3, domain.TaskPriorityMedium},
	{"Benefit Calculation", domain.TaskTypeBenefitCalculation, 5, domain.TaskPriorityMedium},
	{"Initial Correspondence", domain.TaskTypeCorrespondence, 2, domain.TaskPriorityMedium},
	{"Statute of Limitations Check", domain.TaskTypeDeadlineCompliance, 30, domain.TaskPriorityHigh},
}

type TaskService interface {
	Create(dbc dbctx.Context, in NewTaskInput) (*domain.CaseTask, error)
	Save(dbc dbctx.Context, task *domain.CaseTask) (*domain.CaseTask, error)
	Update(dbc dbctx.Context, id uint, task *domain.CaseTask) (*domain.CaseTask, error)
	Delete(dbc dbctx.Context, id uint) error
	GetByID(dbc dbctx.Context, id uint) (*domain.CaseTask, error)
	List(dbc dbctx.Context) ([]*domain.CaseTask, error)

	ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error)
	ListByStatus(dbc dbctx.Context, status domain.TaskStatus) ([]*domain.CaseTask, error)
	ListByType(dbc dbctx.Context, taskType domain.TaskType) ([]*domain.CaseTask, error)
	ListByPriority(dbc dbctx.Context, priority domain.TaskPriority) ([]*domain.CaseTask, error)
	ListByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error)
	ListPendingByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error)
	ListByDueDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.CaseTask, error)
	ListOverdue(dbc dbctx.Context) ([]*domain.CaseTask, error)
	ListDueToday(dbc dbctx.Context) ([]*domain.CaseTask, error)
	ListDueThisWeek(dbc dbctx.Context) ([]*domain.CaseTask, error)
	ListDueBy(dbc dbctx.Context, date time.Time) ([]*domain.CaseTask, error)
	CountByCaseAndStatus(dbc dbctx.Context, caseID uint, status domain.TaskStatus) (int64, error)

	UpdateStatus(dbc dbctx.Context, id uint, status domain.TaskStatus) (*domain.CaseTask, error)
	CompleteTask(dbc dbctx.Context, id uint, notes string) (*domain.CaseTask, error)
	AssignTask(dbc dbctx.Context, id uint, assignee string) (*domain.CaseTask, error)
	UpdatePriority(dbc dbctx.Context, id uint, priority domain.TaskPriority) (*domain.CaseTask, error)
	UpdateDueDate(dbc dbctx.Context, id uint, dueDate time.Time) (*domain.CaseTask, error)
	AddNotes(dbc dbctx.Context, id uint, text string) (*domain.CaseTask, error)

	CreateStandardTasksForCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error)
	MarkOverdueTasks(dbc dbctx.Context) (int, error)
	TaskAnalytics(dbc dbctx.Context) (*TaskAnalytics, error)
	UserTaskAnalytics(dbc dbctx.Context, assignee string) (*TaskAnalytics, error)
}

type taskService struct {
	db     *gorm.DB
	log    *logger.Logger
	tasks  repos.CaseTaskRepo
	cases  repos.WorkersCompCaseRepo
	events EventPublisher
	clock  Clock
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tasks repos.CaseTaskRepo,
	cases repos.WorkersCompCaseRepo,
	events EventPublisher,
	clock Clock,
) TaskService {
	if events == nil {
		events = NoopPublisher()
	}
	return &taskService{
		db:     db,
		log:    baseLog.With("service", "TaskService"),
		tasks:  tasks,
		cases:  cases,
		events: events,
		clock:  clock,
	}
}

func (s *taskService) today() time.Time { return domain.Day(s.clock.now()) }

func (s *taskService) requireCase(dbc dbctx.Context, caseID uint) error {
	ok, err := s.cases.Exists(dbc, caseID)
	if err != nil {
		return internalErr("load_case_failed", err)
	}
	if !ok {
		return invalid("case_not_found", "case %d does not exist", caseID)
	}
	return nil
}

func (s *taskService) Create(dbc dbctx.Context, in NewTaskInput) (*domain.CaseTask, error) {
	if err := s.requireCase(dbc, in.CaseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("missing_fields", "missing title")
	}
	if !in.TaskType.Valid() {
		return nil, invalid("invalid_task_type", "unknown task type %q", in.TaskType)
	}
	if !in.Priority.Valid() {
		return nil, invalid("invalid_task_priority", "unknown priority %q", in.Priority)
	}
	if in.DueDate.IsZero() {
		return nil, invalid("missing_fields", "missing due_date")
	}
	task := &domain.CaseTask{
		CaseID:      in.CaseID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		TaskType:    in.TaskType,
		Priority:    in.Priority,
		Status:      domain.TaskStatusPending,
		DueDate:     domain.Day(in.DueDate),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
	}
	created, err := s.tasks.Create(dbc, []*domain.CaseTask{task})
	if err != nil {
		return nil, internalErr("create_task_failed", err)
	}
	return created[0], nil
}

// Save writes task as given. It does not stamp CompletedAt even when the
// status is COMPLETED; only UpdateStatus and CompleteTask do.
func (s *taskService) Save(dbc dbctx.Context, task *domain.CaseTask) (*domain.CaseTask, error) {
	if task == nil {
		return nil, invalid("missing_task", "task body required")
	}
	if task.Status != "" && !task.Status.Valid() {
		return nil, invalid("invalid_task_status", "unknown status %q", task.Status)
	}
	if task.ID == 0 {
		if err := s.requireCase(dbc, task.CaseID); err != nil {
			return nil, err
		}
	}
	if _, err := s.tasks.Save(dbc, task); err != nil {
		return nil, internalErr("save_task_failed", err)
	}
	return task, nil
}

func (s *taskService) Update(dbc dbctx.Context, id uint, task *domain.CaseTask) (*domain.CaseTask, error) {
	if task == nil {
		return nil, invalid("missing_task", "task body required")
	}
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	if task.CaseID == 0 {
		task.CaseID = existing.CaseID
	}
	return s.Save(dbc, task)
}

func (s *taskService) Delete(dbc dbctx.Context, id uint) error {
	ok, err := s.tasks.Delete(dbc, id)
	if err != nil {
		return internalErr("delete_task_failed", err)
	}
	if !ok {
		return notFound("task_not_found", "task %d", id)
	}
	return nil
}

func (s *taskService) GetByID(dbc dbctx.Context, id uint) (*domain.CaseTask, error) {
	task, err := s.tasks.GetByID(dbc, id)
	if err != nil {
		return nil, internalErr("load_task_failed", err)
	}
	if task == nil {
		return nil, notFound("task_not_found", "task %d", id)
	}
	return task, nil
}

func (s *taskService) List(dbc dbctx.Context) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.List(dbc))
}

func (s *taskService) ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListByCase(dbc, caseID))
}

func (s *taskService) ListByStatus(dbc dbctx.Context, status domain.TaskStatus) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListByStatus(dbc, status))
}

func (s *taskService) ListByType(dbc dbctx.Context, taskType domain.TaskType) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListByType(dbc, taskType))
}

func (s *taskService) ListByPriority(dbc dbctx.Context, priority domain.TaskPriority) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListByPriority(dbc, priority))
}

func (s *taskService) ListByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListByAssignee(dbc, assignee))
}

func (s *taskService) ListPendingByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListPendingByAssignee(dbc, assignee))
}

func (s *taskService) ListByDueDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.CaseTask, error) {
	if end.Before(start) {
		return nil, invalid("invalid_date_range", "end date before start date")
	}
	return wrapList(s.tasks.ListByDueDateBetween(dbc, start, end))
}

func (s *taskService) ListOverdue(dbc dbctx.Context) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListOverdue(dbc, s.today()))
}

func (s *taskService) ListDueToday(dbc dbctx.Context) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListDueOn(dbc, s.today()))
}

func (s *taskService) ListDueThisWeek(dbc dbctx.Context) ([]*domain.CaseTask, error) {
	start, end := domain.WeekWindow(s.today())
	return wrapList(s.tasks.ListByDueDateBetween(dbc, start, end))
}

// ListDueBy only returns PENDING tasks, unlike the other due-date queries.
func (s *taskService) ListDueBy(dbc dbctx.Context, date time.Time) ([]*domain.CaseTask, error) {
	return wrapList(s.tasks.ListPendingDueBy(dbc, date))
}

func (s *taskService) CountByCaseAndStatus(dbc dbctx.Context, caseID uint, status domain.TaskStatus) (int64, error) {
	n, err := s.tasks.CountByCaseAndStatus(dbc, caseID, status)
	if err != nil {
		return 0, internalErr("count_tasks_failed", err)
	}
	return n, nil
}

// mutate loads the task, applies fn, and saves it.
func (s *taskService) mutate(dbc dbctx.Context, id uint, fn func(t *domain.CaseTask)) (*domain.CaseTask, error) {
	task, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	fn(task)
	if _, err := s.tasks.Save(dbc, task); err != nil {
		return nil, internalErr("save_task_failed", err)
	}
	return task, nil
}

func (s *taskService) UpdateStatus(dbc dbctx.Context, id uint, status domain.TaskStatus) (*domain.CaseTask, error) {
	if !status.Valid() {
		return nil, invalid("invalid_task_status", "unknown status %q", status)
	}
	task, err := s.mutate(dbc, id, func(t *domain.CaseTask) {
		t.Status = status
		if status == domain.TaskStatusCompleted {
			now := s.clock.now()
			t.CompletedAt = &now
		}
	})
	if err != nil {
		return nil, err
	}
	if status == domain.TaskStatusCompleted {
		s.publishCompleted(dbc, task)
	}
	return task, nil
}

func (s *taskService) CompleteTask(dbc dbctx.Context, id uint, notes string) (*domain.CaseTask, error) {
	task, err := s.mutate(dbc, id, func(t *domain.CaseTask) {
		now := s.clock.now()
		t.Status = domain.TaskStatusCompleted
		t.CompletedAt = &now
		if strings.TrimSpace(notes) != "" {
			t.Notes = appendNote(t.Notes, "Completed: "+notes)
		}
	})
	if err != nil {
		return nil, err
	}
	s.publishCompleted(dbc, task)
	return task, nil
}

func (s *taskService) publishCompleted(dbc dbctx.Context, task *domain.CaseTask) {
	publishBestEffort(dbc.Ctx, s.log, s.events, domain.Event{
		Type:       domain.EventTaskCompleted,
		EntityID:   task.ID,
		CaseID:     task.CaseID,
		Data:       map[string]interface{}{"title": task.Title, "assigned_to": task.AssignedTo},
		OccurredAt: s.clock.now(),
	})
}

func (s *taskService) AssignTask(dbc dbctx.Context, id uint, assignee string) (*domain.CaseTask, error) {
	return s.mutate(dbc, id, func(t *domain.CaseTask) { t.AssignedTo = strings.TrimSpace(assignee) })
}

func (s *taskService) UpdatePriority(dbc dbctx.Context, id uint, priority domain.TaskPriority) (*domain.CaseTask, error) {
	if !priority.Valid() {
		return nil, invalid("invalid_task_priority", "unknown priority %q", priority)
	}
	return s.mutate(dbc, id, func(t *domain.CaseTask) { t.Priority = priority })
}

func (s *taskService) UpdateDueDate(dbc dbctx.Context, id uint, dueDate time.Time) (*domain.CaseTask, error) {
	if dueDate.IsZero() {
		return nil, invalid("missing_fields", "missing due_date")
	}
	return s.mutate(dbc, id, func(t *domain.CaseTask) { t.DueDate = domain.Day(dueDate) })
}

// AddNotes appends "<timestamp>: <text>". Existing notes are never replaced.
func (s *taskService) AddNotes(dbc dbctx.Context, id uint, text string) (*domain.CaseTask, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid("missing_fields", "missing notes")
	}
	return s.mutate(dbc, id, func(t *domain.CaseTask) {
		t.Notes = appendNote(t.Notes, s.clock.now().Format(noteTimeLayout)+": "+text)
	})
}

func appendNote(existing, entry string) string {
	if existing == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

func (s *taskService) CreateStandardTasksForCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error) {
	if err := s.requireCase(dbc, caseID); err != nil {
		return nil, err
	}
	today := s.today()
	batch := make([]*domain.CaseTask, 0, len(standardTasks))
	for _, st := range standardTasks {
		batch = append(batch, &domain.CaseTask{
			CaseID:   caseID,
			Title:    st.title,
			TaskType: st.taskType,
			Priority: st.priority,
			Status:   domain.TaskStatusPending,
			DueDate:  today.AddDate(0, 0, st.offset),
		})
	}
	created, err := s.tasks.Create(dbc, batch)
	if err != nil {
		return nil, internalErr("create_standard_tasks_failed", err)
	}
	s.log.Info("Standard tasks seeded", "case_id", caseID, "count", len(created))
	return created, nil
}

// MarkOverdueTasks moves every overdue PENDING or IN_PROGRESS task to
// OVERDUE and returns how many changed. A second run finds nothing to do.
func (s *taskService) MarkOverdueTasks(dbc dbctx.Context) (int, error) {
	today := s.today()
	overdue, err := s.tasks.ListOverdue(dbc, today)
	if err != nil {
		return 0, internalErr("list_overdue_failed", err)
	}
	marked := 0
	for _, t := range overdue {
		if !t.Status.Sweepable() {
			continue
		}
		ok, err := s.tasks.UpdateStatusIfIn(dbc, t.ID, domain.SweepableTaskStatuses(), domain.TaskStatusOverdue)
		if err != nil {
			s.log.Warn("Mark overdue failed", "task_id", t.ID, "error", err)
			continue
		}
		if ok {
			marked++
		}
	}
	if marked > 0 {
		s.log.Info("Overdue tasks marked", "count", marked, "as_of", today.Format(domain.DateLayout))
		publishBestEffort(dbc.Ctx, s.log, s.events, domain.Event{
			Type:       domain.EventTaskOverdueMarked,
			Data:       map[string]interface{}{"count": marked, "as_of": today.Format(domain.DateLayout)},
			OccurredAt: s.clock.now(),
		})
	}
	return marked, nil
}

func (s *taskService) TaskAnalytics(dbc dbctx.Context) (*TaskAnalytics, error) {
	today := s.today()
	weekStart, weekEnd := domain.WeekWindow(today)
	out := &TaskAnalytics{}

	counts := []struct {
		name string
		dst  *int64
		fn   func() (int64, error)
	}{
		{"total", &out.TotalTasks, func() (int64, error) { return s.tasks.CountAll(dbc) }},
		{"pending", &out.PendingTasks, func() (int64, error) { return s.tasks.CountByStatus(dbc, domain.TaskStatusPending) }},
		{"in_progress", &out.InProgressTasks, func() (int64, error) { return s.tasks.CountByStatus(dbc, domain.TaskStatusInProgress) }},
		{"completed", &out.CompletedTasks, func() (int64, error) { return s.tasks.CountByStatus(dbc, domain.TaskStatusCompleted) }},
		{"overdue", &out.OverdueTasks, func() (int64, error) { return s.tasks.CountOverdue(dbc, today) }},
		{"due_today", &out.DueToday, func() (int64, error) { return s.tasks.CountDueBetween(dbc, today, today) }},
		{"due_this_week", &out.DueThisWeek, func() (int64, error) { return s.tasks.CountDueBetween(dbc, weekStart, weekEnd) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, internalErr("task_analytics_failed", fmt.Errorf("count %s: %w", c.name, err))
		}
		*c.dst = n
	}
	return out, nil
}

// UserTaskAnalytics evaluates the same predicates as TaskAnalytics over the
// assignee's tasks in memory.
func (s *taskService) UserTaskAnalytics(dbc dbctx.Context, assignee string) (*TaskAnalytics, error) {
	rows, err := s.tasks.ListByAssignee(dbc, assignee)
	if err != nil {
		return nil, internalErr("task_analytics_failed", err)
	}
	today := s.today()
	weekStart, weekEnd := domain.WeekWindow(today)
	out := &TaskAnalytics{TotalTasks: int64(len(rows))}
	for _, t := range rows {
		switch t.Status {
		case domain.TaskStatusPending:
			out.PendingTasks++
		case domain.TaskStatusInProgress:
			out.InProgressTasks++
		case domain.TaskStatusCompleted:
			out.CompletedTasks++
		}
		if domain.IsOverdue(t, today) {
			out.OverdueTasks++
		}
		if domain.IsDueOn(t, today) {
			out.DueToday++
		}
		if domain.IsDueBetween(t, weekStart, weekEnd) {
			out.DueThisWeek++
		}
	}
	return out, nil
}
