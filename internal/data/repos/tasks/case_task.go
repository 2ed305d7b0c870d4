package tasks

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type CaseTaskRepo interface {
	Create(dbc dbctx.Context, tasks []*domain.CaseTask) ([]*domain.CaseTask, error)
	Save(dbc dbctx.Context, task *domain.CaseTask) (*domain.CaseTask, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.CaseTask, error)
	List(dbc dbctx.Context) ([]*domain.CaseTask, error)
	ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error)
	ListByStatus(dbc dbctx.Context, status domain.TaskStatus) ([]*domain.CaseTask, error)
	ListByType(dbc dbctx.Context, taskType domain.TaskType) ([]*domain.CaseTask, error)
	ListByPriority(dbc dbctx.Context, priority domain.TaskPriority) ([]*domain.CaseTask, error)
	ListByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error)
	ListPendingByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error)
	ListByDueDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.CaseTask, error)
	ListOverdue(dbc dbctx.Context, today time.Time) ([]*domain.CaseTask, error)
	ListDueOn(dbc dbctx.Context, day time.Time) ([]*domain.CaseTask, error)
	ListPendingDueBy(dbc dbctx.Context, date time.Time) ([]*domain.CaseTask, error)
	CountAll(dbc dbctx.Context) (int64, error)
	CountByStatus(dbc dbctx.Context, status domain.TaskStatus) (int64, error)
	CountByCaseAndStatus(dbc dbctx.Context, caseID uint, status domain.TaskStatus) (int64, error)
	CountOverdue(dbc dbctx.Context, today time.Time) (int64, error)
	CountDueBetween(dbc dbctx.Context, start, end time.Time) (int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) (bool, error)
	UpdateStatusIfIn(dbc dbctx.Context, id uint, allowed []domain.TaskStatus, to domain.TaskStatus) (bool, error)
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type caseTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseTaskRepo(db *gorm.DB, baseLog *logger.Logger) CaseTaskRepo {
	return &caseTaskRepo{
		db:  db,
		log: baseLog.With("repo", "CaseTaskRepo"),
	}
}

// Create inserts all tasks in one statement so a batch either lands whole or
// not at all.
func (r *caseTaskRepo) Create(dbc dbctx.Context, tasks []*domain.CaseTask) ([]*domain.CaseTask, error) {
	if len(tasks) == 0 {
		return []*domain.CaseTask{}, nil
	}
	if err := dbc.Conn(r.db).Create(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *caseTaskRepo) Save(dbc dbctx.Context, task *domain.CaseTask) (*domain.CaseTask, error) {
	if err := dbc.Conn(r.db).Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *caseTaskRepo) GetByID(dbc dbctx.Context, id uint) (*domain.CaseTask, error) {
	if id == 0 {
		return nil, nil
	}
	var out domain.CaseTask
	err := dbc.Conn(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *caseTaskRepo) List(dbc dbctx.Context) ([]*domain.CaseTask, error) {
	return r.find(dbc, nil)
}

func (r *caseTaskRepo) ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("case_id = ?", caseID) })
}

func (r *caseTaskRepo) ListByStatus(dbc dbctx.Context, status domain.TaskStatus) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", status) })
}

func (r *caseTaskRepo) ListByType(dbc dbctx.Context, taskType domain.TaskType) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("task_type = ?", taskType) })
}

func (r *caseTaskRepo) ListByPriority(dbc dbctx.Context, priority domain.TaskPriority) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("priority = ?", priority) })
}

func (r *caseTaskRepo) ListByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("assigned_to = ?", assignee) })
}

// ListPendingByAssignee orders by priority (URGENT first), then earliest due.
func (r *caseTaskRepo) ListPendingByAssignee(dbc dbctx.Context, assignee string) ([]*domain.CaseTask, error) {
	var out []*domain.CaseTask
	err := dbc.Conn(r.db).
		Where("assigned_to = ? AND status = ?", assignee, domain.TaskStatusPending).
		Order(db.PriorityRankSQL + " DESC").
		Order("due_date ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *caseTaskRepo) ListByDueDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return dueBetween(q, start, end) })
}

func (r *caseTaskRepo) ListOverdue(dbc dbctx.Context, today time.Time) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return overdue(q, today) })
}

func (r *caseTaskRepo) ListDueOn(dbc dbctx.Context, day time.Time) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("due_date = ?", domain.Day(day)) })
}

func (r *caseTaskRepo) ListPendingDueBy(dbc dbctx.Context, date time.Time) ([]*domain.CaseTask, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("due_date <= ? AND status = ?", domain.Day(date), domain.TaskStatusPending)
	})
}

func (r *caseTaskRepo) CountAll(dbc dbctx.Context) (int64, error) {
	return r.count(dbc, nil)
}

func (r *caseTaskRepo) CountByStatus(dbc dbctx.Context, status domain.TaskStatus) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", status) })
}

func (r *caseTaskRepo) CountByCaseAndStatus(dbc dbctx.Context, caseID uint, status domain.TaskStatus) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("case_id = ? AND status = ?", caseID, status)
	})
}

func (r *caseTaskRepo) CountOverdue(dbc dbctx.Context, today time.Time) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB { return overdue(q, today) })
}

func (r *caseTaskRepo) CountDueBetween(dbc dbctx.Context, start, end time.Time) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB { return dueBetween(q, start, end) })
}

func (r *caseTaskRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) (bool, error) {
	if id == 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&domain.CaseTask{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateStatusIfIn moves a task to `to` only while its current status is one
// of allowed, so concurrent sweeps never double count.
func (r *caseTaskRepo) UpdateStatusIfIn(dbc dbctx.Context, id uint, allowed []domain.TaskStatus, to domain.TaskStatus) (bool, error) {
	if id == 0 || len(allowed) == 0 {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&domain.CaseTask{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *caseTaskRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&domain.CaseTask{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *caseTaskRepo) find(dbc dbctx.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.CaseTask, error) {
	q := dbc.Conn(r.db)
	if scope != nil {
		q = scope(q)
	}
	var out []*domain.CaseTask
	if err := q.Order("due_date ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *caseTaskRepo) count(dbc dbctx.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	q := dbc.Conn(r.db).Model(&domain.CaseTask{})
	if scope != nil {
		q = scope(q)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func overdue(q *gorm.DB, today time.Time) *gorm.DB {
	return q.Where("due_date < ? AND status NOT IN ?", domain.Day(today), domain.ClosedTaskStatuses())
}

func dueBetween(q *gorm.DB, start, end time.Time) *gorm.DB {
	return q.Where("due_date >= ? AND due_date <= ?", domain.Day(start), domain.Day(end))
}
