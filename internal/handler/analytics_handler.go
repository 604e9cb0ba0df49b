package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

// DailyPerformance aggregates scheduled vs completed habit counts per day
// over the fecha_inicio..fecha_fin query range.
func (h *AnalyticsHandler) DailyPerformance(c *gin.Context) {
	from := c.Query("fecha_inicio")
	to := c.Query("fecha_fin")

	days, err := h.analytics.DailyPerformance(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		respondError(c, h.logger, "DailyPerformance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rendimiento": days})
}

func (h *AnalyticsHandler) HabitCompliance(c *gin.Context) {
	from := c.Query("fecha_inicio")
	to := c.Query("fecha_fin")

	habits, err := h.analytics.HabitCompliance(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		respondError(c, h.logger, "HabitCompliance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cumplimiento": habits})
}
