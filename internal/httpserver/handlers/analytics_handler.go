package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/httpserver/middleware"
	"tradedesk-system/internal/services/analytics"
)

type AnalyticsHTTPHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHTTPHandler(analyticsSvc *analytics.Service) *AnalyticsHTTPHandler {
	return &AnalyticsHTTPHandler{analytics: analyticsSvc}
}

func (h *AnalyticsHTTPHandler) Dashboard(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	report, err := h.analytics.Dashboard(c.Request.Context(), middleware.Identity(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
