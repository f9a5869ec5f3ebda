package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warinyupa/stocklens/internal/insight"
	"github.com/warinyupa/stocklens/internal/service"
)

type InsightHandler struct {
	forecast     *service.ForecastService
	summarizer   *insight.Summarizer
	defaultPlant string
}

func NewInsightHandler(forecast *service.ForecastService, summarizer *insight.Summarizer, defaultPlant string) *InsightHandler {
	return &InsightHandler{forecast: forecast, summarizer: summarizer, defaultPlant: defaultPlant}
}

func (h *InsightHandler) GetInsight(c *gin.Context) {
	plant := c.Query("plant")
	if plant == "" {
		plant = h.defaultPlant
	}

	trends, err := h.forecast.GetTrendAnalytics(c.Request.Context(), plant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend analytics", "details": err.Error()})
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), trends)
	if err != nil {
		if errors.Is(err, insight.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insight summarizer is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate insight", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
