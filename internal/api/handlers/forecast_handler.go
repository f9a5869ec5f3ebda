package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/warinyupa/stocklens/internal/service"
)

type ForecastHandler struct {
	service      *service.ForecastService
	defaultPlant string
}

func NewForecastHandler(service *service.ForecastService, defaultPlant string) *ForecastHandler {
	return &ForecastHandler{service: service, defaultPlant: defaultPlant}
}

func (h *ForecastHandler) plant(c *gin.Context) string {
	plant := strings.TrimSpace(c.Query("plant"))
	if plant == "" {
		plant = h.defaultPlant
	}
	return plant
}

func (h *ForecastHandler) GetHistoricalStock(c *gin.Context) {
	rows, err := h.service.GetHistoricalLedger(c.Request.Context(), h.plant(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch historical stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	items, err := h.service.GetForecast(c.Request.Context(), h.plant(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ForecastHandler) GetDashboardMetrics(c *gin.Context) {
	metrics, err := h.service.GetDashboardMetrics(c.Request.Context(), h.plant(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate dashboard metrics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *ForecastHandler) GetTrendAnalytics(c *gin.Context) {
	trends, err := h.service.GetTrendAnalytics(c.Request.Context(), h.plant(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend analytics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trends)
}

type allocateRequest struct {
	SKUs  []string `json:"skus" binding:"required"`
	Weeks int      `json:"weeks"`
}

func (h *ForecastHandler) Allocate(c *gin.Context) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if req.Weeks <= 0 {
		req.Weeks = 2
	}

	allocations, err := h.service.Allocate(c.Request.Context(), req.SKUs, req.Weeks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to allocate demand", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, allocations)
}
