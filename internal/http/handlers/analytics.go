package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Rsplitstone/compcase-backend/internal/http/response"
	"github.com/Rsplitstone/compcase-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	out, err := h.analytics.Overview(reqCtx(c))
	if err != nil {
		response.RespondServiceError(c, err, "analytics_failed")
		return
	}
	response.RespondOK(c, out)
}
