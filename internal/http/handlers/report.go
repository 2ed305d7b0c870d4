package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/http/response"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type reportBody struct {
	CaseID                      uint                `json:"case_id"`
	DoctorName                  string              `json:"doctor_name"`
	Specialty                   string              `json:"specialty"`
	ExaminationDate             string              `json:"examination_date"`
	ReportContent               string              `json:"report_content"`
	AISummary                   *string             `json:"ai_summary"`
	RecommendedDisabilityRating decimal.NullDecimal `json:"recommended_disability_rating"`
	WorkRestrictions            *string             `json:"work_restrictions"`
	TreatmentRecommendations    *string             `json:"treatment_recommendations"`
	IsFinal                     bool                `json:"is_final"`
	FilePath                    string              `json:"file_path"`
}

func (b reportBody) toDomain() (*domain.AMEReport, error) {
	exam, err := parseDay(b.ExaminationDate)
	if err != nil {
		return nil, err
	}
	return &domain.AMEReport{
		CaseID:                      b.CaseID,
		DoctorName:                  strings.TrimSpace(b.DoctorName),
		Specialty:                   strings.TrimSpace(b.Specialty),
		ExaminationDate:             exam,
		ReportContent:               b.ReportContent,
		AISummary:                   b.AISummary,
		RecommendedDisabilityRating: b.RecommendedDisabilityRating,
		WorkRestrictions:            b.WorkRestrictions,
		TreatmentRecommendations:    b.TreatmentRecommendations,
		IsFinal:                     b.IsFinal,
		FilePath:                    strings.TrimSpace(b.FilePath),
	}, nil
}

func (h *ReportHandler) bindReport(c *gin.Context) (*domain.AMEReport, bool) {
	var body reportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	r, err := body.toDomain()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	return r, true
}

func (h *ReportHandler) reportID(c *gin.Context) (uint, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return 0, false
	}
	return id, true
}

func respondReport(c *gin.Context, r *domain.AMEReport, err error, fallbackCode string) {
	if err != nil {
		response.RespondServiceError(c, err, fallbackCode)
		return
	}
	response.RespondOK(c, r)
}

// GET /api/ame-reports
func (h *ReportHandler) List(c *gin.Context) {
	rows, err := h.reports.List(reqCtx(c))
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	r, err := h.reports.GetByID(reqCtx(c), id)
	respondReport(c, r, err, "load_report_failed")
}

// POST /api/ame-reports
func (h *ReportHandler) Save(c *gin.Context) {
	r, ok := h.bindReport(c)
	if !ok {
		return
	}
	saved, err := h.reports.Save(reqCtx(c), r)
	if err != nil {
		response.RespondServiceError(c, err, "save_report_failed")
		return
	}
	response.RespondCreated(c, saved)
}

// POST /api/ame-reports/create?caseId=&doctorName=&specialty=&examinationDate=&filePath=
func (h *ReportHandler) Create(c *gin.Context) {
	caseID, err := parseUintQuery(c, "caseId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	exam, err := queryDay(c, "examinationDate")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.reports.Create(reqCtx(c), services.NewReportInput{
		CaseID:          caseID,
		DoctorName:      c.Query("doctorName"),
		Specialty:       c.Query("specialty"),
		ExaminationDate: exam,
		FilePath:        c.Query("filePath"),
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_report_failed")
		return
	}
	response.RespondCreated(c, r)
}

// PUT /api/ame-reports/:id
func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	r, ok := h.bindReport(c)
	if !ok {
		return
	}
	updated, err := h.reports.Update(reqCtx(c), id, r)
	respondReport(c, updated, err, "update_report_failed")
}

// DELETE /api/ame-reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	if err := h.reports.Delete(reqCtx(c), id); err != nil {
		response.RespondServiceError(c, err, "delete_report_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/ame-reports/case/:caseId
func (h *ReportHandler) ListByCase(c *gin.Context) {
	caseID, err := pathID(c, "caseId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_case_id", err)
		return
	}
	rows, err := h.reports.ListByCase(reqCtx(c), caseID)
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/case/:caseId/final
func (h *ReportHandler) ListFinalByCase(c *gin.Context) {
	caseID, err := pathID(c, "caseId")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_case_id", err)
		return
	}
	rows, err := h.reports.ListFinalByCase(reqCtx(c), caseID)
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/search/doctor?name=
func (h *ReportHandler) SearchByDoctor(c *gin.Context) {
	rows, err := h.reports.SearchByDoctorName(reqCtx(c), c.Query("name"))
	respondList(c, rows, err, "search_reports_failed")
}

// GET /api/ame-reports/specialty/:specialty
func (h *ReportHandler) ListBySpecialty(c *gin.Context) {
	rows, err := h.reports.ListBySpecialty(reqCtx(c), c.Param("specialty"))
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/final/:isFinal
func (h *ReportHandler) ListByFinal(c *gin.Context) {
	isFinal, err := strconv.ParseBool(c.Param("isFinal"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_is_final", err)
		return
	}
	rows, err := h.reports.ListByFinal(reqCtx(c), isFinal)
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/date-range?startDate=&endDate=
func (h *ReportHandler) ListByExaminationDateRange(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date_range", err)
		return
	}
	rows, err := h.reports.ListByExaminationDateRange(reqCtx(c), start, end)
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/disability-rating/:minRating
func (h *ReportHandler) ListByRecommendedRating(c *gin.Context) {
	minRating, err := parseDecimal(c.Param("minRating"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_rating", err)
		return
	}
	rows, err := h.reports.ListByRecommendedRatingAtLeast(reqCtx(c), minRating)
	respondList(c, rows, err, "list_reports_failed")
}

// GET /api/ame-reports/needs-summary
func (h *ReportHandler) ListNeedingSummary(c *gin.Context) {
	rows, err := h.reports.ListNeedingSummary(reqCtx(c))
	respondList(c, rows, err, "list_reports_failed")
}

// POST /api/ame-reports/:id/generate-summary
func (h *ReportHandler) GenerateSummary(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}
	r, err := h.reports.GenerateAISummary(reqCtx(c), id)
	respondReport(c, r, err, "generate_summary_failed")
}

// POST /api/ame-reports/batch-generate-summaries
func (h *ReportHandler) BatchGenerateSummaries(c *gin.Context) {
	res, err := h.reports.GenerateAISummariesForPendingReports(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err, "batch_summaries_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/ame-reports/analytics
func (h *ReportHandler) Analytics(c *gin.Context) {
	stats, err := h.reports.ReportAnalytics(reqCtx(c))
	if err != nil {
		response.RespondServiceError(c, err, "report_analytics_failed")
		return
	}
	response.RespondOK(c, stats)
}
