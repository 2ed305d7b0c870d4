package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Rsplitstone/compcase-backend/internal/domain"
	"github.com/Rsplitstone/compcase-backend/internal/http/response"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type CaseHandler struct {
	cases services.CaseService
}

func NewCaseHandler(cases services.CaseService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

type caseBody struct {
	CaseNumber        string              `json:"case_number"`
	ClaimantName      string              `json:"claimant_name"`
	EmployerName      string              `json:"employer_name"`
	InjuryDate        string              `json:"injury_date"`
	InjuryDescription string              `json:"injury_description"`
	Status            string              `json:"status"`
	AdjusterName      string              `json:"adjuster_name"`
	AdjusterID        string              `json:"adjuster_id"`
	WeeklyWage        decimal.NullDecimal `json:"weekly_wage"`
	DisabilityRating  decimal.NullDecimal `json:"disability_rating"`
	MMIDate           string              `json:"mmi_date"`
	Notes             string              `json:"notes"`
}

func (b caseBody) toDomain() (*domain.WorkersCompCase, error) {
	injury, err := parseDay(b.InjuryDate)
	if err != nil {
		return nil, err
	}
	mmi, err := optionalDay(b.MMIDate)
	if err != nil {
		return nil, err
	}
	var status domain.CaseStatus
	if strings.TrimSpace(b.Status) != "" {
		if status, err = domain.ParseCaseStatus(b.Status); err != nil {
			return nil, err
		}
	}
	return &domain.WorkersCompCase{
		CaseNumber:        strings.TrimSpace(b.CaseNumber),
		ClaimantName:      strings.TrimSpace(b.ClaimantName),
		EmployerName:      strings.TrimSpace(b.EmployerName),
		InjuryDate:        injury,
		InjuryDescription: strings.TrimSpace(b.InjuryDescription),
		Status:            status,
		AdjusterName:      strings.TrimSpace(b.AdjusterName),
		AdjusterID:        strings.TrimSpace(b.AdjusterID),
		WeeklyWage:        b.WeeklyWage,
		DisabilityRating:  b.DisabilityRating,
		MMIDate:           mmi,
		Notes:             b.Notes,
	}, nil
}

func (h *CaseHandler) bindCase(c *gin.Context) (*domain.WorkersCompCase, bool) {
	var body caseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	wc, err := body.toDomain()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return nil, false
	}
	return wc, true
}

func (h *CaseHandler) caseID(c *gin.Context) (uint, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_case_id", err)
		return 0, false
	}
	return id, true
}

// GET /api/workers-comp-cases
func (h *CaseHandler) List(c *gin.Context) {
	rows, err := h.cases.List(reqCtx(c))
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	wc, err := h.cases.GetByID(reqCtx(c), id)
	if err != nil {
		response.RespondServiceError(c, err, "load_case_failed")
		return
	}
	response.RespondOK(c, wc)
}

// GET /api/workers-comp-cases/case-number/:caseNumber
func (h *CaseHandler) GetByCaseNumber(c *gin.Context) {
	wc, err := h.cases.GetByCaseNumber(reqCtx(c), c.Param("caseNumber"))
	if err != nil {
		response.RespondServiceError(c, err, "load_case_failed")
		return
	}
	response.RespondOK(c, wc)
}

// POST /api/workers-comp-cases
func (h *CaseHandler) Save(c *gin.Context) {
	wc, ok := h.bindCase(c)
	if !ok {
		return
	}
	saved, err := h.cases.Save(reqCtx(c), wc)
	if err != nil {
		response.RespondServiceError(c, err, "save_case_failed")
		return
	}
	response.RespondCreated(c, saved)
}

// POST /api/workers-comp-cases/create
func (h *CaseHandler) Create(c *gin.Context) {
	injury, err := queryDay(c, "injuryDate")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	wc, err := h.cases.Create(reqCtx(c), services.NewCaseInput{
		CaseNumber:        c.Query("caseNumber"),
		ClaimantName:      c.Query("claimantName"),
		EmployerName:      c.Query("employerName"),
		InjuryDate:        injury,
		InjuryDescription: c.Query("injuryDescription"),
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_case_failed")
		return
	}
	response.RespondCreated(c, wc)
}

// PUT /api/workers-comp-cases/:id
func (h *CaseHandler) Update(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	wc, ok := h.bindCase(c)
	if !ok {
		return
	}
	updated, err := h.cases.Update(reqCtx(c), id, wc)
	if err != nil {
		response.RespondServiceError(c, err, "update_case_failed")
		return
	}
	response.RespondOK(c, updated)
}

// DELETE /api/workers-comp-cases/:id
func (h *CaseHandler) Delete(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	if err := h.cases.Delete(reqCtx(c), id); err != nil {
		response.RespondServiceError(c, err, "delete_case_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/workers-comp-cases/search/claimant?name=
func (h *CaseHandler) SearchByClaimant(c *gin.Context) {
	rows, err := h.cases.SearchByClaimantName(reqCtx(c), c.Query("name"))
	respondList(c, rows, err, "search_cases_failed")
}

// GET /api/workers-comp-cases/search/employer?name=
func (h *CaseHandler) SearchByEmployer(c *gin.Context) {
	rows, err := h.cases.SearchByEmployerName(reqCtx(c), c.Query("name"))
	respondList(c, rows, err, "search_cases_failed")
}

// GET /api/workers-comp-cases/status/:status
func (h *CaseHandler) ListByStatus(c *gin.Context) {
	status, err := domain.ParseCaseStatus(c.Param("status"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_case_status", err)
		return
	}
	rows, err := h.cases.ListByStatus(reqCtx(c), status)
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/adjuster/:adjusterName
func (h *CaseHandler) ListByAdjuster(c *gin.Context) {
	rows, err := h.cases.ListByAdjuster(reqCtx(c), c.Param("adjusterName"))
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/injury-date-range?startDate=&endDate=
func (h *CaseHandler) ListByInjuryDateRange(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date_range", err)
		return
	}
	rows, err := h.cases.ListByInjuryDateRange(reqCtx(c), start, end)
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/disability-rating/:minRating
func (h *CaseHandler) ListByDisabilityRating(c *gin.Context) {
	minRating, err := parseDecimal(c.Param("minRating"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_rating", err)
		return
	}
	rows, err := h.cases.ListByDisabilityRatingAtLeast(reqCtx(c), minRating)
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/open-without-mmi
func (h *CaseHandler) ListOpenWithoutMMI(c *gin.Context) {
	rows, err := h.cases.ListOpenWithoutMMI(reqCtx(c))
	respondList(c, rows, err, "list_cases_failed")
}

// GET /api/workers-comp-cases/:id/statute-check
func (h *CaseHandler) StatuteCheck(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	check, err := h.cases.StatuteCheck(reqCtx(c), id)
	if err != nil {
		response.RespondServiceError(c, err, "statute_check_failed")
		return
	}
	response.RespondOK(c, check)
}

// GET /api/workers-comp-cases/:id/days-since-injury
func (h *CaseHandler) DaysSinceInjury(c *gin.Context) {
	id, ok := h.caseID(c)
	if !ok {
		return
	}
	wc, err := h.cases.GetByID(reqCtx(c), id)
	if err != nil {
		response.RespondServiceError(c, err, "load_case_failed")
		return
	}
	response.RespondOK(c, h.cases.DaysSinceInjury(wc))
}

// POST /api/workers-comp-cases/calculate-td-rate?weeklyWage=
func (h *CaseHandler) CalculateTDRate(c *gin.Context) {
	wage, err := optionalDecimal(c.Query("weeklyWage"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_weekly_wage", err)
		return
	}
	response.RespondOK(c, h.cases.CalculateTemporaryDisabilityRate(wage))
}

// POST /api/workers-comp-cases/calculate-pd-indemnity?disabilityRating=&weeklyWage=
func (h *CaseHandler) CalculatePDIndemnity(c *gin.Context) {
	rating, err := optionalDecimal(c.Query("disabilityRating"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_disability_rating", err)
		return
	}
	wage, err := optionalDecimal(c.Query("weeklyWage"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_weekly_wage", err)
		return
	}
	response.RespondOK(c, h.cases.CalculatePermanentDisabilityIndemnity(rating, wage))
}

// GET /api/workers-comp-cases/dashboard
func (h *CaseHandler) Dashboard(c *gin.Context) {
	dash, err := h.cases.DashboardStats(reqCtx(c))
	if err != nil {
		response.RespondServiceError(c, err, "dashboard_failed")
		return
	}
	response.RespondOK(c, dash)
}

func respondList[T any](c *gin.Context, rows []T, err error, fallbackCode string) {
	if err != nil {
		response.RespondServiceError(c, err, fallbackCode)
		return
	}
	response.RespondOK(c, rows)
}
