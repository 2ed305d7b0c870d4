package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/data/db"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type NewCaseInput struct {
	CaseNumber        string
	ClaimantName      string
	EmployerName      string
	InjuryDate        time.Time
	InjuryDescription string
}

// CaseDashboard counts cases per reporting status. LITIGATED is not part of
// the dashboard buckets or the total.
type CaseDashboard struct {
	OpenCases          int64 `json:"open_cases"`
	PendingReviewCases int64 `json:"pending_review_cases"`
	ClosedCases        int64 `json:"closed_cases"`
	SettledCases       int64 `json:"settled_cases"`
	TotalCases         int64 `json:"total_cases"`
}

type StatuteCheck struct {
	CaseID             uint   `json:"case_id"`
	CaseNumber         string `json:"case_number"`
	DaysSinceInjury    int    `json:"days_since_injury"`
	ApproachingStatute bool   `json:"approaching_statute"`
}

type CaseService interface {
	Create(dbc dbctx.Context, in NewCaseInput) (*domain.WorkersCompCase, error)
	Save(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error)
	Update(dbc dbctx.Context, id uint, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error)
	Delete(dbc dbctx.Context, id uint) error
	GetByID(dbc dbctx.Context, id uint) (*domain.WorkersCompCase, error)
	GetByCaseNumber(dbc dbctx.Context, caseNumber string) (*domain.WorkersCompCase, error)
	List(dbc dbctx.Context) ([]*domain.WorkersCompCase, error)
	SearchByClaimantName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error)
	SearchByEmployerName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error)
	ListByStatus(dbc dbctx.Context, status domain.CaseStatus) ([]*domain.WorkersCompCase, error)
	ListByAdjuster(dbc dbctx.Context, adjusterName string) ([]*domain.WorkersCompCase, error)
	ListByInjuryDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.WorkersCompCase, error)
	ListByDisabilityRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.WorkersCompCase, error)
	ListOpenWithoutMMI(dbc dbctx.Context) ([]*domain.WorkersCompCase, error)

	DaysSinceInjury(c *domain.WorkersCompCase) int
	IsApproachingStatuteOfLimitations(c *domain.WorkersCompCase) bool
	StatuteCheck(dbc dbctx.Context, id uint) (*StatuteCheck, error)
	CalculateTemporaryDisabilityRate(weeklyWage decimal.NullDecimal) decimal.Decimal
	CalculatePermanentDisabilityIndemnity(disabilityRating, weeklyWage decimal.NullDecimal) decimal.Decimal
	DashboardStats(dbc dbctx.Context) (*CaseDashboard, error)
}

type caseService struct {
	db       *gorm.DB
	log      *logger.Logger
	cases    repos.WorkersCompCaseRepo
	schedule BenefitSchedule
	clock    Clock
}

func NewCaseService(db *gorm.DB, baseLog *logger.Logger, cases repos.WorkersCompCaseRepo, schedule BenefitSchedule, clock Clock) CaseService {
	return &caseService{
		db:       db,
		log:      baseLog.With("service", "CaseService"),
		cases:    cases,
		schedule: schedule,
		clock:    clock,
	}
}

func (s *caseService) Create(dbc dbctx.Context, in NewCaseInput) (*domain.WorkersCompCase, error) {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(in.CaseNumber) == "" {
		missing = append(missing, "case_number")
	}
	if strings.TrimSpace(in.ClaimantName) == "" {
		missing = append(missing, "claimant_name")
	}
	if strings.TrimSpace(in.EmployerName) == "" {
		missing = append(missing, "employer_name")
	}
	if in.InjuryDate.IsZero() {
		missing = append(missing, "injury_date")
	}
	if strings.TrimSpace(in.InjuryDescription) == "" {
		missing = append(missing, "injury_description")
	}
	if len(missing) > 0 {
		return nil, invalid("missing_fields", "missing %s", strings.Join(missing, ", "))
	}

	c := &domain.WorkersCompCase{
		CaseNumber:        strings.TrimSpace(in.CaseNumber),
		ClaimantName:      strings.TrimSpace(in.ClaimantName),
		EmployerName:      strings.TrimSpace(in.EmployerName),
		InjuryDate:        domain.Day(in.InjuryDate),
		InjuryDescription: strings.TrimSpace(in.InjuryDescription),
		Status:            domain.CaseStatusOpen,
	}
	return s.persist(dbc, c, true)
}

// Save upserts c as given. No field-level rules beyond storage constraints.
func (s *caseService) Save(dbc dbctx.Context, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error) {
	if c == nil {
		return nil, invalid("missing_case", "case body required")
	}
	if c.Status != "" && !c.Status.Valid() {
		return nil, invalid("invalid_case_status", "unknown status %q", c.Status)
	}
	return s.persist(dbc, c, c.ID == 0)
}

func (s *caseService) Update(dbc dbctx.Context, id uint, c *domain.WorkersCompCase) (*domain.WorkersCompCase, error) {
	if c == nil {
		return nil, invalid("missing_case", "case body required")
	}
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	return s.Save(dbc, c)
}

func (s *caseService) persist(dbc dbctx.Context, c *domain.WorkersCompCase, create bool) (*domain.WorkersCompCase, error) {
	var err error
	if create {
		_, err = s.cases.Create(dbc, c)
	} else {
		_, err = s.cases.Save(dbc, c)
	}
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, conflict("case_number_taken", "case number %q already exists", c.CaseNumber)
		}
		s.log.Error("Persist case failed", "case_number", c.CaseNumber, "error", err)
		return nil, internalErr("save_case_failed", err)
	}
	s.log.Debug("Case saved", "case_id", c.ID, "case_number", c.CaseNumber, "status", c.Status)
	return c, nil
}

func (s *caseService) Delete(dbc dbctx.Context, id uint) error {
	ok, err := s.cases.Delete(dbc, id)
	if err != nil {
		return internalErr("delete_case_failed", err)
	}
	if !ok {
		return notFound("case_not_found", "case %d", id)
	}
	return nil
}

func (s *caseService) GetByID(dbc dbctx.Context, id uint) (*domain.WorkersCompCase, error) {
	c, err := s.cases.GetByID(dbc, id)
	if err != nil {
		return nil, internalErr("load_case_failed", err)
	}
	if c == nil {
		return nil, notFound("case_not_found", "case %d", id)
	}
	return c, nil
}

func (s *caseService) GetByCaseNumber(dbc dbctx.Context, caseNumber string) (*domain.WorkersCompCase, error) {
	c, err := s.cases.GetByCaseNumber(dbc, strings.TrimSpace(caseNumber))
	if err != nil {
		return nil, internalErr("load_case_failed", err)
	}
	if c == nil {
		return nil, notFound("case_not_found", "case number %q", caseNumber)
	}
	return c, nil
}

func (s *caseService) List(dbc dbctx.Context) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.List(dbc))
}

func (s *caseService) SearchByClaimantName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.SearchByClaimantName(dbc, strings.TrimSpace(term)))
}

func (s *caseService) SearchByEmployerName(dbc dbctx.Context, term string) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.SearchByEmployerName(dbc, strings.TrimSpace(term)))
}

func (s *caseService) ListByStatus(dbc dbctx.Context, status domain.CaseStatus) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.ListByStatus(dbc, status))
}

func (s *caseService) ListByAdjuster(dbc dbctx.Context, adjusterName string) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.ListByAdjusterName(dbc, adjusterName))
}

func (s *caseService) ListByInjuryDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.WorkersCompCase, error) {
	if end.Before(start) {
		return nil, invalid("invalid_date_range", "end date before start date")
	}
	return wrapList(s.cases.ListByInjuryDateBetween(dbc, start, end))
}

func (s *caseService) ListByDisabilityRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.ListByDisabilityRatingAtLeast(dbc, min))
}

func (s *caseService) ListOpenWithoutMMI(dbc dbctx.Context) ([]*domain.WorkersCompCase, error) {
	return wrapList(s.cases.ListOpenWithoutMMI(dbc))
}

// DaysSinceInjury counts calendar days, not elapsed 24h periods.
func (s *caseService) DaysSinceInjury(c *domain.WorkersCompCase) int {
	if c == nil || c.InjuryDate.IsZero() {
		return 0
	}
	return domain.DaysBetween(c.InjuryDate, s.clock.now())
}

func (s *caseService) IsApproachingStatuteOfLimitations(c *domain.WorkersCompCase) bool {
	return s.DaysSinceInjury(c) > StatuteAlertDays
}

func (s *caseService) StatuteCheck(dbc dbctx.Context, id uint) (*StatuteCheck, error) {
	c, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	days := s.DaysSinceInjury(c)
	return &StatuteCheck{
		CaseID:             c.ID,
		CaseNumber:         c.CaseNumber,
		DaysSinceInjury:    days,
		ApproachingStatute: days > StatuteAlertDays,
	}, nil
}

func (s *caseService) CalculateTemporaryDisabilityRate(weeklyWage decimal.NullDecimal) decimal.Decimal {
	return s.schedule.TemporaryDisabilityRate(weeklyWage)
}

func (s *caseService) CalculatePermanentDisabilityIndemnity(disabilityRating, weeklyWage decimal.NullDecimal) decimal.Decimal {
	return s.schedule.PermanentDisabilityIndemnity(disabilityRating, weeklyWage)
}

func (s *caseService) DashboardStats(dbc dbctx.Context) (*CaseDashboard, error) {
	out := &CaseDashboard{}
	buckets := []struct {
		status domain.CaseStatus
		dst    *int64
	}{
		{domain.CaseStatusOpen, &out.OpenCases},
		{domain.CaseStatusPendingReview, &out.PendingReviewCases},
		{domain.CaseStatusClosed, &out.ClosedCases},
		{domain.CaseStatusSettled, &out.SettledCases},
	}
	for _, b := range buckets {
		n, err := s.cases.CountByStatus(dbc, b.status)
		if err != nil {
			return nil, internalErr("dashboard_failed", fmt.Errorf("count %s: %w", b.status, err))
		}
		*b.dst = n
		out.TotalCases += n
	}
	return out, nil
}

func wrapList[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, internalErr("query_failed", err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
