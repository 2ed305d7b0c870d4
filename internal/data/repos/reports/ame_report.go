package reports

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

type AMEReportRepo interface {
	Create(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error)
	Save(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error)
	GetByID(dbc dbctx.Context, id uint) (*domain.AMEReport, error)
	List(dbc dbctx.Context) ([]*domain.AMEReport, error)
	ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error)
	SearchByDoctorName(dbc dbctx.Context, term string) ([]*domain.AMEReport, error)
	ListBySpecialty(dbc dbctx.Context, specialty string) ([]*domain.AMEReport, error)
	ListByFinal(dbc dbctx.Context, isFinal bool) ([]*domain.AMEReport, error)
	ListByExaminationDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.AMEReport, error)
	ListFinalByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error)
	ListByRecommendedRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.AMEReport, error)
	ListNeedingSummary(dbc dbctx.Context) ([]*domain.AMEReport, error)
	CountAll(dbc dbctx.Context) (int64, error)
	CountFinal(dbc dbctx.Context) (int64, error)
	CountWithSummary(dbc dbctx.Context) (int64, error)
	CountNeedingSummary(dbc dbctx.Context) (int64, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) (bool, error)
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type ameReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAMEReportRepo(db *gorm.DB, baseLog *logger.Logger) AMEReportRepo {
	return &ameReportRepo{
		db:  db,
		log: baseLog.With("repo", "AMEReportRepo"),
	}
}

func (r *ameReportRepo) Create(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error) {
	if err := dbc.Conn(r.db).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ameReportRepo) Save(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error) {
	if err := dbc.Conn(r.db).Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ameReportRepo) GetByID(dbc dbctx.Context, id uint) (*domain.AMEReport, error) {
	if id == 0 {
		return nil, nil
	}
	var out domain.AMEReport
	err := dbc.Conn(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ameReportRepo) List(dbc dbctx.Context) ([]*domain.AMEReport, error) {
	return r.find(dbc, nil)
}

func (r *ameReportRepo) ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("case_id = ?", caseID) })
}

func (r *ameReportRepo) SearchByDoctorName(dbc dbctx.Context, term string) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where(db.ContainsInsensitiveSQL("doctor_name"), db.ContainsPattern(term))
	})
}

func (r *ameReportRepo) ListBySpecialty(dbc dbctx.Context, specialty string) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("specialty = ?", specialty) })
}

func (r *ameReportRepo) ListByFinal(dbc dbctx.Context, isFinal bool) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("is_final = ?", isFinal) })
}

func (r *ameReportRepo) ListByExaminationDateBetween(dbc dbctx.Context, start, end time.Time) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("examination_date >= ? AND examination_date <= ?", domain.Day(start), domain.Day(end))
	})
}

func (r *ameReportRepo) ListFinalByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("case_id = ? AND is_final = ?", caseID, true)
	})
}

func (r *ameReportRepo) ListByRecommendedRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.AMEReport, error) {
	return r.find(dbc, func(q *gorm.DB) *gorm.DB {
		return q.Where("recommended_disability_rating IS NOT NULL AND recommended_disability_rating >= ?", min)
	})
}

func (r *ameReportRepo) ListNeedingSummary(dbc dbctx.Context) ([]*domain.AMEReport, error) {
	return r.find(dbc, needsSummary)
}

func (r *ameReportRepo) CountAll(dbc dbctx.Context) (int64, error) {
	return r.count(dbc, nil)
}

func (r *ameReportRepo) CountFinal(dbc dbctx.Context) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("is_final = ?", true) })
}

func (r *ameReportRepo) CountWithSummary(dbc dbctx.Context) (int64, error) {
	return r.count(dbc, func(q *gorm.DB) *gorm.DB { return q.Where("ai_summary IS NOT NULL") })
}

func (r *ameReportRepo) CountNeedingSummary(dbc dbctx.Context) (int64, error) {
	return r.count(dbc, needsSummary)
}

func (r *ameReportRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]interface{}) (bool, error) {
	if id == 0 || len(updates) == 0 {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&domain.AMEReport{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ameReportRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&domain.AMEReport{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ameReportRepo) find(dbc dbctx.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.AMEReport, error) {
	q := dbc.Conn(r.db)
	if scope != nil {
		q = scope(q)
	}
	var out []*domain.AMEReport
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ameReportRepo) count(dbc dbctx.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	q := dbc.Conn(r.db).Model(&domain.AMEReport{})
	if scope != nil {
		q = scope(q)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func needsSummary(q *gorm.DB) *gorm.DB {
	return q.Where("ai_summary IS NULL")
}
