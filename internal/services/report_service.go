package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Rsplitstone/compcase-backend/internal/clients/summarizer"
	"github.com/Rsplitstone/compcase-backend/internal/data/repos"
	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/platform/dbctx"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

// Summarizer is the collaborator that turns report text into AI fields.
type Summarizer = summarizer.Engine

type NewReportInput struct {
	CaseID          uint
	DoctorName      string
	Specialty       string
	ExaminationDate time.Time
	FilePath        string
}

type ReportAnalytics struct {
	TotalReports          int64 `json:"total_reports"`
	FinalReports          int64 `json:"final_reports"`
	ReportsWithSummary    int64 `json:"reports_with_summary"`
	ReportsNeedingSummary int64 `json:"reports_needing_summary"`
}

type BatchFailure struct {
	ReportID uint   `json:"report_id"`
	Error    string `json:"error"`
}

// BatchResult reports one pass over the reports needing a summary.
// Succeeded counts only reports whose summary was committed.
type BatchResult struct {
	RunID     uuid.UUID      `json:"run_id"`
	Attempted int            `json:"attempted"`
	Succeeded int            `json:"succeeded"`
	Failures  []BatchFailure `json:"failures"`
}

type ReportServiceOptions struct {
	SummaryTimeout   time.Duration
	BatchConcurrency int
}

type ReportService interface {
	Create(dbc dbctx.Context, in NewReportInput) (*domain.AMEReport, error)
	Save(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error)
	Update(dbc dbctx.Context, id uint, report *domain.AMEReport) (*domain.AMEReport, error)
	Delete(dbc dbctx.Context, id uint) error
	GetByID(dbc dbctx.Context, id uint) (*domain.AMEReport, error)
	List(dbc dbctx.Context) ([]*domain.AMEReport, error)

	ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error)
	SearchByDoctorName(dbc dbctx.Context, term string) ([]*domain.AMEReport, error)
	ListBySpecialty(dbc dbctx.Context, specialty string) ([]*domain.AMEReport, error)
	ListByFinal(dbc dbctx.Context, isFinal bool) ([]*domain.AMEReport, error)
	ListByExaminationDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.AMEReport, error)
	ListFinalByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error)
	ListByRecommendedRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.AMEReport, error)
	ListNeedingSummary(dbc dbctx.Context) ([]*domain.AMEReport, error)

	GenerateAISummary(dbc dbctx.Context, id uint) (*domain.AMEReport, error)
	GenerateAISummariesForPendingReports(ctx context.Context) (*BatchResult, error)
	ReportAnalytics(dbc dbctx.Context) (*ReportAnalytics, error)
}

type reportService struct {
	db          *gorm.DB
	log         *logger.Logger
	reports     repos.AMEReportRepo
	cases       repos.WorkersCompCaseRepo
	engine      Summarizer
	events      EventPublisher
	clock       Clock
	timeout     time.Duration
	concurrency int
}

func NewReportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reports repos.AMEReportRepo,
	cases repos.WorkersCompCaseRepo,
	engine Summarizer,
	events EventPublisher,
	clock Clock,
	opts ReportServiceOptions,
) ReportService {
	if events == nil {
		events = NoopPublisher()
	}
	if opts.SummaryTimeout <= 0 {
		opts.SummaryTimeout = 30 * time.Second
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	return &reportService{
		db:          db,
		log:         baseLog.With("service", "ReportService"),
		reports:     reports,
		cases:       cases,
		engine:      engine,
		events:      events,
		clock:       clock,
		timeout:     opts.SummaryTimeout,
		concurrency: opts.BatchConcurrency,
	}
}

func (s *reportService) Create(dbc dbctx.Context, in NewReportInput) (*domain.AMEReport, error) {
	ok, err := s.cases.Exists(dbc, in.CaseID)
	if err != nil {
		return nil, internalErr("load_case_failed", err)
	}
	if !ok {
		return nil, invalid("case_not_found", "case %d does not exist", in.CaseID)
	}
	missing := make([]string, 0, 4)
	if strings.TrimSpace(in.DoctorName) == "" {
		missing = append(missing, "doctor_name")
	}
	if strings.TrimSpace(in.Specialty) == "" {
		missing = append(missing, "specialty")
	}
	if in.ExaminationDate.IsZero() {
		missing = append(missing, "examination_date")
	}
	if strings.TrimSpace(in.FilePath) == "" {
		missing = append(missing, "file_path")
	}
	if len(missing) > 0 {
		return nil, invalid("missing_fields", "missing %s", strings.Join(missing, ", "))
	}
	report := &domain.AMEReport{
		CaseID:          in.CaseID,
		DoctorName:      strings.TrimSpace(in.DoctorName),
		Specialty:       strings.TrimSpace(in.Specialty),
		ExaminationDate: domain.Day(in.ExaminationDate),
		FilePath:        strings.TrimSpace(in.FilePath),
		IsFinal:         false,
	}
	if _, err := s.reports.Create(dbc, report); err != nil {
		return nil, internalErr("create_report_failed", err)
	}
	return report, nil
}

func (s *reportService) Save(dbc dbctx.Context, report *domain.AMEReport) (*domain.AMEReport, error) {
	if report == nil {
		return nil, invalid("missing_report", "report body required")
	}
	if report.ID == 0 {
		ok, err := s.cases.Exists(dbc, report.CaseID)
		if err != nil {
			return nil, internalErr("load_case_failed", err)
		}
		if !ok {
			return nil, invalid("case_not_found", "case %d does not exist", report.CaseID)
		}
	}
	if _, err := s.reports.Save(dbc, report); err != nil {
		return nil, internalErr("save_report_failed", err)
	}
	return report, nil
}

func (s *reportService) Update(dbc dbctx.Context, id uint, report *domain.AMEReport) (*domain.AMEReport, error) {
	if report == nil {
		return nil, invalid("missing_report", "report body required")
	}
	existing, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	report.ID = existing.ID
	report.CreatedAt = existing.CreatedAt
	if report.CaseID == 0 {
		report.CaseID = existing.CaseID
	}
	// Not part of the update body.
	report.AIResponse = existing.AIResponse
	report.SummarizedAt = existing.SummarizedAt
	return s.Save(dbc, report)
}

func (s *reportService) Delete(dbc dbctx.Context, id uint) error {
	ok, err := s.reports.Delete(dbc, id)
	if err != nil {
		return internalErr("delete_report_failed", err)
	}
	if !ok {
		return notFound("report_not_found", "report %d", id)
	}
	return nil
}

func (s *reportService) GetByID(dbc dbctx.Context, id uint) (*domain.AMEReport, error) {
	report, err := s.reports.GetByID(dbc, id)
	if err != nil {
		return nil, internalErr("load_report_failed", err)
	}
	if report == nil {
		return nil, notFound("report_not_found", "report %d", id)
	}
	return report, nil
}

func (s *reportService) List(dbc dbctx.Context) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.List(dbc))
}

func (s *reportService) ListByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListByCase(dbc, caseID))
}

func (s *reportService) SearchByDoctorName(dbc dbctx.Context, term string) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.SearchByDoctorName(dbc, strings.TrimSpace(term)))
}

func (s *reportService) ListBySpecialty(dbc dbctx.Context, specialty string) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListBySpecialty(dbc, specialty))
}

func (s *reportService) ListByFinal(dbc dbctx.Context, isFinal bool) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListByFinal(dbc, isFinal))
}

func (s *reportService) ListByExaminationDateRange(dbc dbctx.Context, start, end time.Time) ([]*domain.AMEReport, error) {
	if end.Before(start) {
		return nil, invalid("invalid_date_range", "end date before start date")
	}
	return wrapList(s.reports.ListByExaminationDateBetween(dbc, start, end))
}

func (s *reportService) ListFinalByCase(dbc dbctx.Context, caseID uint) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListFinalByCase(dbc, caseID))
}

func (s *reportService) ListByRecommendedRatingAtLeast(dbc dbctx.Context, min decimal.Decimal) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListByRecommendedRatingAtLeast(dbc, min))
}

func (s *reportService) ListNeedingSummary(dbc dbctx.Context) ([]*domain.AMEReport, error) {
	return wrapList(s.reports.ListNeedingSummary(dbc))
}

// GenerateAISummary summarizes one report. On any collaborator failure the
// stored report is left untouched.
func (s *reportService) GenerateAISummary(dbc dbctx.Context, id uint) (*domain.AMEReport, error) {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer("compcase/services").Start(ctx, "ReportService.GenerateAISummary")
	defer span.End()
	span.SetAttributes(attribute.Int64("report.id", int64(id)))

	report, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if s.engine == nil {
		return nil, collaboratorFailure("summarizer_unavailable", errors.New("no summarizer configured"))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	res, err := s.engine.Summarize(callCtx, report.ReportContent)
	cancel()
	if err != nil {
		span.RecordError(err)
		s.log.Warn("Summarize failed", "report_id", id, "error", err)
		return nil, collaboratorFailure("summarizer_failed", err)
	}
	if !res.HasSummary() {
		s.log.Warn("Summarize returned no summary", "report_id", id)
		return nil, collaboratorFailure("summarizer_failed", errors.New("response missing summary"))
	}

	now := s.clock.now()
	updates := map[string]interface{}{
		"ai_summary":    *res.Summary,
		"summarized_at": now,
	}
	if len(res.Raw) > 0 {
		updates["ai_response"] = datatypes.JSON(res.Raw)
	}
	if res.DisabilityRating != nil {
		updates["recommended_disability_rating"] = decimal.NewNullDecimal(*res.DisabilityRating)
	}
	if res.WorkRestrictions != nil {
		updates["work_restrictions"] = *res.WorkRestrictions
	}
	if res.TreatmentRecommendations != nil {
		updates["treatment_recommendations"] = *res.TreatmentRecommendations
	}
	ok, err := s.reports.UpdateFields(dbc, id, updates)
	if err != nil {
		return nil, internalErr("save_report_failed", err)
	}
	if !ok {
		return nil, notFound("report_not_found", "report %d", id)
	}

	updated, err := s.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	publishBestEffort(ctx, s.log, s.events, domain.Event{
		Type:       domain.EventReportSummarized,
		EntityID:   updated.ID,
		CaseID:     updated.CaseID,
		OccurredAt: now,
	})
	return updated, nil
}

// GenerateAISummariesForPendingReports runs GenerateAISummary for every
// report that still needs one, at most concurrency at a time. Failures are
// collected per report and never stop the batch. Cancelling ctx stops new
// reports from being scheduled; reports already started run to completion.
func (s *reportService) GenerateAISummariesForPendingReports(ctx context.Context) (*BatchResult, error) {
	ctx, span := otel.Tracer("compcase/services").Start(ctx, "ReportService.GenerateAISummariesForPendingReports")
	defer span.End()

	pending, err := s.reports.ListNeedingSummary(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, internalErr("list_pending_reports_failed", err)
	}

	result := &BatchResult{RunID: uuid.New(), Failures: []BatchFailure{}}
	log := s.log.With("run_id", result.RunID.String())
	log.Info("Summary batch started", "pending", len(pending), "concurrency", s.concurrency)

	itemCtx := context.WithoutCancel(ctx)
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.concurrency)
	for _, r := range pending {
		if ctx.Err() != nil {
			break
		}
		id := r.ID
		// g.Go blocks while all slots are busy, so cancellation can land
		// between scheduling and start.
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			mu.Lock()
			result.Attempted++
			mu.Unlock()
			_, err := s.GenerateAISummary(dbctx.Context{Ctx: itemCtx}, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, BatchFailure{ReportID: id, Error: err.Error()})
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		log.Warn("Summary batch cancelled", "attempted", result.Attempted, "pending", len(pending))
	}

	sort.Slice(result.Failures, func(i, j int) bool { return result.Failures[i].ReportID < result.Failures[j].ReportID })
	span.SetAttributes(
		attribute.Int("batch.attempted", result.Attempted),
		attribute.Int("batch.succeeded", result.Succeeded),
	)
	log.Info("Summary batch finished", "attempted", result.Attempted, "succeeded", result.Succeeded, "failed", len(result.Failures))
	publishBestEffort(itemCtx, log, s.events, domain.Event{
		Type: domain.EventSummaryBatchDone,
		Data: map[string]interface{}{
			"run_id":    result.RunID.String(),
			"attempted": result.Attempted,
			"succeeded": result.Succeeded,
		},
		OccurredAt: s.clock.now(),
	})
	return result, nil
}

func (s *reportService) ReportAnalytics(dbc dbctx.Context) (*ReportAnalytics, error) {
	out := &ReportAnalytics{}
	counts := []struct {
		dst *int64
		fn  func(dbctx.Context) (int64, error)
	}{
		{&out.TotalReports, s.reports.CountAll},
		{&out.FinalReports, s.reports.CountFinal},
		{&out.ReportsWithSummary, s.reports.CountWithSummary},
		{&out.ReportsNeedingSummary, s.reports.CountNeedingSummary},
	}
	for _, c := range counts {
		n, err := c.fn(dbc)
		if err != nil {
			return nil, internalErr("report_analytics_failed", err)
		}
		*c.dst = n
	}
	return out, nil
}
