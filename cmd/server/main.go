package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warinyupa/stocklens/internal/api"
	"github.com/warinyupa/stocklens/internal/cache"
	"github.com/warinyupa/stocklens/internal/config"
	"github.com/warinyupa/stocklens/internal/insight"
	"github.com/warinyupa/stocklens/internal/repository/postgres"
	"github.com/warinyupa/stocklens/internal/service"
	"github.com/warinyupa/stocklens/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	sharedCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Shared cache unavailable, continuing without it")
		sharedCache = cache.NewNoopForecastCache()
	}

	stockRepo := postgres.NewStockFactsRepository(db)
	demandRepo := postgres.NewDemandRepository(db)
	skuRepo := postgres.NewSKURepository(db)
	plantRepo := postgres.NewPlantRepository(db)

	ttl := time.Duration(cfg.Cache.ForecastTTLSeconds) * time.Second
	forecastService := service.NewForecastService(stockRepo, demandRepo, skuRepo, cfg.Forecast, ttl, nil, sharedCache)
	orderService := service.NewOrderService(skuRepo, nil)
	summarizer := insight.NewSummarizer(cfg.Insight)

	router := api.NewRouter(&api.Services{
		ForecastService: forecastService,
		OrderService:    orderService,
		PlantRepo:       plantRepo,
		Summarizer:      summarizer,
		DefaultPlant:    cfg.Forecast.DefaultPlant,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
