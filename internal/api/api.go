package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/warinyupa/stocklens/internal/api/handlers"
	"github.com/warinyupa/stocklens/internal/api/middleware"
	"github.com/warinyupa/stocklens/internal/insight"
	"github.com/warinyupa/stocklens/internal/repository"
	"github.com/warinyupa/stocklens/internal/service"
)

type Services struct {
	ForecastService *service.ForecastService
	OrderService    *service.OrderService
	PlantRepo       repository.PlantRepository
	Summarizer      *insight.Summarizer
	DefaultPlant    string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService, services.DefaultPlant)
			apiGroup.GET("/historical-stock", forecastHandler.GetHistoricalStock)
			apiGroup.GET("/forecast", forecastHandler.GetForecast)
			apiGroup.GET("/dashboard/metrics", forecastHandler.GetDashboardMetrics)
			apiGroup.GET("/analytics/trends", forecastHandler.GetTrendAnalytics)
			apiGroup.POST("/allocate", forecastHandler.Allocate)

			if services.Summarizer != nil {
				insightHandler := handlers.NewInsightHandler(services.ForecastService, services.Summarizer, services.DefaultPlant)
				apiGroup.GET("/insight", insightHandler.GetInsight)
			}
		}

		if services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.OrderService)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.GET("", orderHandler.GetOrders)
				orderGroup.PUT("/:id", orderHandler.UpdateOrder)
				orderGroup.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}

		if services.PlantRepo != nil {
			plantHandler := handlers.NewPlantHandler(services.PlantRepo)
			apiGroup.GET("/plants", plantHandler.GetPlants)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
