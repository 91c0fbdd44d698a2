package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JairPrada/RadarColTfm/config"
	"github.com/JairPrada/RadarColTfm/handler"
	"github.com/JairPrada/RadarColTfm/middleware"
	"github.com/JairPrada/RadarColTfm/pkg/logger"
	"github.com/JairPrada/RadarColTfm/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully", "api_base_url", cfg.API.BaseURL)

	// Initialize the pipeline
	client := service.NewClient(&cfg.API, logger.Component("api_client"))
	pipeline := service.NewPipeline(logger.Component("pipeline"))
	cache := service.NewWorkingSetCache(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	contractHandler := handler.NewContractHandler(client, pipeline, cache, logger.Component("handler"))

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.NoCache())
	router.Use(middleware.RateLimit(100, time.Minute)) // 100 requests per minute per client

	// Liveness of this process, no upstream probe
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/contracts", contractHandler.List)
		api.GET("/contracts/:id/analysis", contractHandler.GetAnalysis)
		api.GET("/stats", contractHandler.Stats)
		api.GET("/health", contractHandler.Health)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
