package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/http/response"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type TaskHandler struct {
	tasks services.TaskService
}

func NewTaskHandler(tasks services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskBody struct {
	CaseID      uint   `json:"case_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"task_type"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	AssignedTo  string `json:"assigned_to"`
	Notes       string `json:"notes"`
}

func (b taskBody) toDomain() (*domain.CaseTask, error) {
	due, err := parseDay(b.DueDate)
	if err != nil {
		return nil, err
	}
	taskType, err := domain.ParseTaskType(b.TaskType)
	if err != nil {
		return nil, err
	}
	t := &domain.CaseTask{
		CaseID:      b.CaseID,
		Title:       strings.TrimSpace(b.Title),
		Description: b.Description,
		TaskType:    taskType,
		DueDate:     due,
		AssignedTo:  strings.TrimSpace(b.AssignedTo),
		Notes:       b.Notes,
	}
	if strings.TrimSpace(b.Priority) != "" {
		if t.Priority, err = domain.ParseTaskPriority(b.Priority); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(b.Status) != "" {
		if t.Status, err = domain.ParseTaskStatus(b.Status); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (h *TaskHandler) bindTask(c *gin.Context) (*domain.CaseTask, bool) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	t, err := body.toDomain()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	return t, true
}

func (h *TaskHandler) taskID(c *gin.Context) (uint, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_id", err)
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) caseID(c *gin.Context) (uint, bool) {
	id, err := pathID(c, "caseId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_case_id", err)
		return 0, false
	}
	return id, true
}

func respondTask(c *gin.Context, t *domain.CaseTask, err error, fallbackCode string) {
	if err != nil {
		response.RespondServiceError(c, err, fallbackCode)
		return
	}
	response.RespondOK(c, t)
}

// GET /api/case-tasks
func (h *TaskHandler) List(c *gin.Context) {
	rows, err := h.tasks.List(reqCtx(c))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.GetByID(reqCtx(c), id)
	respondTask(c, t, err, "load_task_failed")
}

// POST /api/case-tasks
func (h *TaskHandler) Save(c *gin.Context) {
	t, ok := h.bindTask(c)
	if !ok {
		return
	}
	saved, err := h.tasks.Save(reqCtx(c), t)
	if err != nil {
		response.RespondServiceError(c, err, "save_task_failed")
		return
	}
	response.RespondCreated(c, saved)
}

// POST /api/case-tasks/create?caseId=&title=&taskType=&dueDate=&priority=
func (h *TaskHandler) Create(c *gin.Context) {
	h.create(c, false)
}

// POST /api/case-tasks/create-detailed adds description and assignedTo.
func (h *TaskHandler) CreateDetailed(c *gin.Context) {
	h.create(c, true)
}

func (h *TaskHandler) create(c *gin.Context, detailed bool) {
	in, err := taskInputFromQuery(c, detailed)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	t, err := h.tasks.Create(reqCtx(c), in)
	if err != nil {
		response.RespondServiceError(c, err, "create_task_failed")
		return
	}
	response.RespondCreated(c, t)
}

func taskInputFromQuery(c *gin.Context, detailed bool) (services.NewTaskInput, error) {
	var in services.NewTaskInput
	caseID, err := parseUintQuery(c, "caseId")
	if err != nil {
		return in, err
	}
	taskType, err := domain.ParseTaskType(c.Query("taskType"))
	if err != nil {
		return in, err
	}
	priority, err := domain.ParseTaskPriority(c.Query("priority"))
	if err != nil {
		return in, err
	}
	due, err := queryDay(c, "dueDate")
	if err != nil {
		return in, err
	}
	in = services.NewTaskInput{
		CaseID:   caseID,
		Title:    c.Query("title"),
		TaskType: taskType,
		Priority: priority,
		DueDate:  due,
	}
	if detailed {
		in.Description = c.Query("description")
		in.AssignedTo = c.Query("assignedTo")
	}
	return in, nil
}

// PUT /api/case-tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, ok := h.bindTask(c)
	if !ok {
		return
	}
	updated, err := h.tasks.Update(reqCtx(c), id, t)
	respondTask(c, updated, err, "update_task_failed")
}

// DELETE /api/case-tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(reqCtx(c), id); err != nil {
		response.RespondServiceError(c, err, "delete_task_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/case-tasks/case/:caseId
func (h *TaskHandler) ListByCase(c *gin.Context) {
	caseID, ok := h.caseID(c)
	if !ok {
		return
	}
	rows, err := h.tasks.ListByCase(reqCtx(c), caseID)
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/status/:status
func (h *TaskHandler) ListByStatus(c *gin.Context) {
	status, err := domain.ParseTaskStatus(c.Param("status"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_status", err)
		return
	}
	rows, err := h.tasks.ListByStatus(reqCtx(c), status)
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/type/:taskType
func (h *TaskHandler) ListByType(c *gin.Context) {
	taskType, err := domain.ParseTaskType(c.Param("taskType"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_type", err)
		return
	}
	rows, err := h.tasks.ListByType(reqCtx(c), taskType)
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/priority/:priority
func (h *TaskHandler) ListByPriority(c *gin.Context) {
	priority, err := domain.ParseTaskPriority(c.Param("priority"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_priority", err)
		return
	}
	rows, err := h.tasks.ListByPriority(reqCtx(c), priority)
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/assignee/:assignedTo
func (h *TaskHandler) ListByAssignee(c *gin.Context) {
	rows, err := h.tasks.ListByAssignee(reqCtx(c), c.Param("assignedTo"))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/assignee/:assignedTo/pending
func (h *TaskHandler) ListPendingByAssignee(c *gin.Context) {
	rows, err := h.tasks.ListPendingByAssignee(reqCtx(c), c.Param("assignedTo"))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/date-range?startDate=&endDate=
func (h *TaskHandler) ListByDueDateRange(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date_range", err)
		return
	}
	rows, err := h.tasks.ListByDueDateRange(reqCtx(c), start, end)
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/overdue
func (h *TaskHandler) ListOverdue(c *gin.Context) {
	rows, err := h.tasks.ListOverdue(reqCtx(c))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/due-today
func (h *TaskHandler) ListDueToday(c *gin.Context) {
	rows, err := h.tasks.ListDueToday(reqCtx(c))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/due-this-week
func (h *TaskHandler) ListDueThisWeek(c *gin.Context) {
	rows, err := h.tasks.ListDueThisWeek(reqCtx(c))
	respondList(c, rows, err, "list_tasks_failed")
}

// GET /api/case-tasks/due-by/:date
func (h *TaskHandler) ListDueBy(c *gin.Context) {
	date, err := parseDay(c.Param("date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	rows, err := h.tasks.ListDueBy(reqCtx(c), date)
	respondList(c, rows, err, "list_tasks_failed")
}

// PUT /api/case-tasks/:id/status?status=
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	status, err := domain.ParseTaskStatus(c.Query("status"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_status", err)
		return
	}
	t, err := h.tasks.UpdateStatus(reqCtx(c), id, status)
	respondTask(c, t, err, "update_task_failed")
}

// PUT /api/case-tasks/:id/complete?notes=
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.CompleteTask(reqCtx(c), id, c.Query("notes"))
	respondTask(c, t, err, "complete_task_failed")
}

// PUT /api/case-tasks/:id/assign?assignedTo=
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.AssignTask(reqCtx(c), id, c.Query("assignedTo"))
	respondTask(c, t, err, "assign_task_failed")
}

// PUT /api/case-tasks/:id/priority?priority=
func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	priority, err := domain.ParseTaskPriority(c.Query("priority"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_priority", err)
		return
	}
	t, err := h.tasks.UpdatePriority(reqCtx(c), id, priority)
	respondTask(c, t, err, "update_task_failed")
}

// PUT /api/case-tasks/:id/due-date?dueDate=
func (h *TaskHandler) UpdateDueDate(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	due, err := queryDay(c, "dueDate")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	t, err := h.tasks.UpdateDueDate(reqCtx(c), id, due)
	respondTask(c, t, err, "update_task_failed")
}

// PUT /api/case-tasks/:id/add-notes?notes=
func (h *TaskHandler) AddNotes(c *gin.Context) {
	id, ok := h.taskID(c)
	if !ok {
		return
	}
	t, err := h.tasks.AddNotes(reqCtx(c), id, c.Query("notes"))
	respondTask(c, t, err, "add_notes_failed")
}

// POST /api/case-tasks/case/:caseId/create-standard
func (h *TaskHandler) CreateStandard(c *gin.Context) {
	caseID, ok := h.caseID(c)
	if !ok {
		return
	}
	rows, err := h.tasks.CreateStandardTasksForCase(reqCtx(c), caseID)
	if err != nil {
		response.RespondServiceError(c, err, "create_standard_tasks_failed")
		return
	}
	response.RespondCreated(c, rows)
}

// POST /api/case-tasks/mark-overdue
func (h *TaskHandler) MarkOverdue(c *gin.Context) {
	n, err := h.tasks.MarkOverdueTasks(reqCtx(c))
	if err != nil {
		response.RespondServiceError(c, err, "mark_overdue_failed")
		return
	}
	response.RespondOK(c, n)
}

// GET /api/case-tasks/analytics
func (h *TaskHandler) Analytics(c *gin.Context) {
	stats, err := h.tasks.TaskAnalytics(reqCtx(c))
	if err != nil {
		response.RespondServiceError(c, err, "task_analytics_failed")
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/case-tasks/analytics/user/:assignedTo
func (h *TaskHandler) UserAnalytics(c *gin.Context) {
	stats, err := h.tasks.UserTaskAnalytics(reqCtx(c), c.Param("assignedTo"))
	if err != nil {
		response.RespondServiceError(c, err, "task_analytics_failed")
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/case-tasks/case/:caseId/count/:status
func (h *TaskHandler) CountByCaseAndStatus(c *gin.Context) {
	caseID, ok := h.caseID(c)
	if !ok {
		return
	}
	status, err := domain.ParseTaskStatus(c.Param("status"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_task_status", err)
		return
	}
	n, err := h.tasks.CountByCaseAndStatus(reqCtx(c), caseID, status)
	if err != nil {
		response.RespondServiceError(c, err, "count_tasks_failed")
		return
	}
	response.RespondOK(c, n)
}
