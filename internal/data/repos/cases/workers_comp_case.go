package cases

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type WorkersCompCaseRepo interface {
	Create(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error)
	Save(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.WorkersCompCase, error)
	GetByCaseNumber(dbc dbctx.Context, caseNumber string) (*domain.WorkersCompCase, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	List(dbc dbctx.Context) ([]*domain.WorkersCompCase, error)
	SearchByClaimantName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error)
	SearchByEmployerName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error)
	ListByStatus(dbc dbctx.Context, status domain.CaseStatus) ([]*domain.WorkersCompCase, error)
	ListByAdjusterName(dbc dbctx.Context, adjusterName string) ([]*domain.WorkersCompCase, error)
	ListByInjuryDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.WorkersCompCase, error)
	ListByDisabilityRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.WorkersCompCase, error)
	ListOpenWithoutMMI(dbc dbctx.Context) ([]*domain.WorkersCompCase, error)
	CountByStatus(dbc dbctx.Context, status domain.CaseStatus) (int64, error)
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type workersCompCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkersCompCaseRepo(db *gorm.DB, baseLog *logger.Logger) WorkersCompCaseRepo {
	return &workersCompCaseRepo{
		db:  db,
		log: baseLog.With("repo", "WorkersCompCaseRepo"),
	}
}

func (r *workersCompCaseRepo) Create(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error) {
	if err := dbc.Conn(r.db).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *workersCompCaseRepo) Save(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error) {
	if err := dbc.Conn(r.db).Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *workersCompCaseRepo) GetByID(dbc dbctx.Context, id uint) (*domain.WorkersCompCase, error) {
	if id == 0 {
		return nil, nil
	}
	var out domain.WorkersCompCase
	err := dbc.Conn(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *workersCompCaseRepo) GetByCaseNumber(dbc dbctx.Context, caseNumber string) (*domain.WorkersCompCase, error) {
	if caseNumber == "" {
		return nil, nil
	}
	var out domain.WorkersCompCase
	err := dbc.Conn(r.db).Where("case_number = ?", caseNumber).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *workersCompCaseRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var n int64
	if err := dbc.Conn(r.db).Model(&domain.WorkersCompCase{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *workersCompCaseRepo) List(dbc dbctx.Context) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, nil)
}

func (r *workersCompCaseRepo) SearchByClaimantName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where(db.ContainsInsensitiveSQL("claimant_name"), db.ContainsPattern(term))
	})
}

func (r *workersCompCaseRepo) SearchByEmployerName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where(db.ContainsInsensitiveSQL("employer_name"), db.ContainsPattern(term))
	})
}

func (r *workersCompCaseRepo) ListByStatus(dbc dbctx.Context, status domain.CaseStatus) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	})
}

func (r *workersCompCaseRepo) ListByAdjusterName(dbc dbctx.Context, adjusterName string) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("adjuster_name = ?", adjusterName)
	})
}

func (r *workersCompCaseRepo) ListByInjuryDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("injury_date >= ? AND injury_date <= ?", domain.Day(start), domain.Day(end))
	})
}

func (r *workersCompCaseRepo) ListByDisabilityRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("disability_rating IS NOT NULL AND disability_rating >= ?", min)
	})
}

func (r *workersCompCaseRepo) ListOpenWithoutMMI(dbc dbctx.Context) ([]*domain.WorkersCompCase, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ? AND mmi_date IS NULL", domain.CaseStatusOpen)
	})
}

func (r *workersCompCaseRepo) CountByStatus(dbc dbctx.Context, status domain.CaseStatus) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).Model(&domain.WorkersCompCase{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *workersCompCaseRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&domain.WorkersCompCase{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *workersCompCaseRepo) find(dbc dbctx.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.WorkersCompCase, error) {
	q := dbc.Conn(r.db)
	if scope != nil {
		q = scope(q)
	}
	var out []*domain.WorkersCompCase
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
