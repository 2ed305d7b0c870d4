package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/Rsplitstone/compcase-backend/internal/http/handlers"
	httpMW "github.com/Rsplitstone/compcase-backend/internal/http/middleware"
	"github.com/Rsplitstone/compcase-backend/internal/observability"
	"github.com/Rsplitstone/compcase-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	CaseHandler      *httpH.CaseHandler
	TaskHandler      *httpH.TaskHandler
	ReportHandler    *httpH.ReportHandler
	AnalyticsHandler *httpH.AnalyticsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")

	// Cases
	if h := cfg.CaseHandler; h != nil {
		g := api.Group("/workers-comp-cases")
		g.GET("", h.List)
		g.POST("", h.Save)
		g.POST("/create", h.Create)
		g.GET("/dashboard", h.Dashboard)
		g.GET("/case-number/:caseNumber", h.GetByCaseNumber)
		g.GET("/search/claimant", h.SearchByClaimant)
		g.GET("/search/employer", h.SearchByEmployer)
		g.GET("/status/:status", h.ListByStatus)
		g.GET("/adjuster/:adjusterName", h.ListByAdjuster)
		g.GET("/injury-date-range", h.ListByInjuryDateRange)
		g.GET("/disability-rating/:minRating", h.ListByDisabilityRating)
		g.GET("/open-without-mmi", h.ListOpenWithoutMMI)
		g.POST("/calculate-td-rate", h.CalculateTDRate)
		g.POST("/calculate-pd-indemnity", h.CalculatePDIndemnity)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/statute-check", h.StatuteCheck)
		g.GET("/:id/days-since-injury", h.DaysSinceInjury)
	}

	// Tasks
	if h := cfg.TaskHandler; h != nil {
		g := api.Group("/case-tasks")
		g.GET("", h.List)
		g.POST("", h.Save)
		g.POST("/create", h.Create)
		g.POST("/create-detailed", h.CreateDetailed)
		g.POST("/mark-overdue", h.MarkOverdue)
		g.GET("/analytics", h.Analytics)
		g.GET("/analytics/user/:assignedTo", h.UserAnalytics)
		g.GET("/case/:caseId", h.ListByCase)
		g.POST("/case/:caseId/create-standard", h.CreateStandard)
		g.GET("/case/:caseId/count/:status", h.CountByCaseAndStatus)
		g.GET("/status/:status", h.ListByStatus)
		g.GET("/type/:taskType", h.ListByType)
		g.GET("/priority/:priority", h.ListByPriority)
		g.GET("/assignee/:assignedTo", h.ListByAssignee)
		g.GET("/assignee/:assignedTo/pending", h.ListPendingByAssignee)
		g.GET("/date-range", h.ListByDueDateRange)
		g.GET("/overdue", h.ListOverdue)
		g.GET("/due-today", h.ListDueToday)
		g.GET("/due-this-week", h.ListDueThisWeek)
		g.GET("/due-by/:date", h.ListDueBy)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.PUT("/:id/status", h.UpdateStatus)
		g.PUT("/:id/complete", h.Complete)
		g.PUT("/:id/assign", h.Assign)
		g.PUT("/:id/priority", h.UpdatePriority)
		g.PUT("/:id/due-date", h.UpdateDueDate)
		g.PUT("/:id/add-notes", h.AddNotes)
	}

	// Reports
	if h := cfg.ReportHandler; h != nil {
		g := api.Group("/ame-reports")
		g.GET("", h.List)
		g.POST("", h.Save)
		g.POST("/create", h.Create)
		g.POST("/batch-generate-summaries", h.BatchGenerateSummaries)
		g.GET("/analytics", h.Analytics)
		g.GET("/needs-summary", h.ListNeedingSummary)
		g.GET("/case/:caseId", h.ListByCase)
		g.GET("/case/:caseId/final", h.ListFinalByCase)
		g.GET("/search/doctor", h.SearchByDoctor)
		g.GET("/specialty/:specialty", h.ListBySpecialty)
		g.GET("/final/:isFinal", h.ListByFinal)
		g.GET("/date-range", h.ListByExaminationDateRange)
		g.GET("/disability-rating/:minRating", h.ListByRecommendedRating)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/generate-summary", h.GenerateSummary)
	}

	// Analytics
	if cfg.AnalyticsHandler != nil {
		api.GET("/analytics/overview", cfg.AnalyticsHandler.Overview)
	}

	return r
}
