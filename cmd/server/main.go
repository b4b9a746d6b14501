// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/client"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/config"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/handler"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/middleware"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/monitor"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/suggest"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize the analytics client
	analyticsClient := client.NewAnalyticsClient(cfg.Analytics.BaseURL, client.Timeouts{
		Suggest:   cfg.Analytics.SuggestTimeout,
		StockInfo: cfg.Analytics.StockInfoTimeout,
		Screen:    cfg.Analytics.ScreenTimeout,
		Health:    cfg.Analytics.HealthTimeout,
	}, logger)

	// Initialize services
	backtestService := service.NewBacktestService(analyticsClient, logger)
	stockService := service.NewStockService(analyticsClient, logger)
	screenerService := service.NewScreenerService(analyticsClient, logger)

	// Start the upstream health monitor
	healthMonitor := monitor.NewMonitor(analyticsClient, cfg.Monitor.Schedule, logger)
	if err := healthMonitor.Start(); err != nil {
		logger.Fatal("Failed to start health monitor", zap.Error(err))
	}
	defer healthMonitor.Stop()

	// Report upstream availability at startup without blocking serving
	go func() {
		if err := healthMonitor.WaitUntilReady(context.Background(), cfg.Monitor.StartupWait); err != nil {
			logger.Warn("Analytics service not reachable at startup", zap.Error(err))
		} else {
			logger.Info("Analytics service ready")
		}
	}()

	suggestOpts := suggest.Options{
		Debounce:     cfg.Suggest.Debounce,
		FetchTimeout: cfg.Suggest.FetchTimeout,
		BlurGrace:    cfg.Suggest.BlurGrace,
		UpdateBuffer: cfg.Suggest.UpdateBuffer,
	}

	// Initialize handlers
	backtestHandler := handler.NewBacktestHandler(backtestService, logger)
	stockHandler := handler.NewStockHandler(stockService, logger)
	screenerHandler := handler.NewScreenerHandler(screenerService, logger)
	suggestStreamHandler := handler.NewSuggestStreamHandler(analyticsClient, suggestOpts, logger)

	// Set up HTTP server with Gin
	router := setupRouter(
		backtestHandler,
		stockHandler,
		screenerHandler,
		suggestStreamHandler,
		healthMonitor,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(logging config.LoggingConfig) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch logging.Level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := logging.Format
	if encoding == "" {
		encoding = "json"
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

func setupRouter(
	backtestHandler *handler.BacktestHandler,
	stockHandler *handler.StockHandler,
	screenerHandler *handler.ScreenerHandler,
	suggestStreamHandler *handler.SuggestStreamHandler,
	healthMonitor *monitor.Monitor,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.Logger(logger))

	// Health check covers this facade and the analytics service behind it
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"analytics": healthMonitor.Current(),
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Stock lookup routes
		stocks := v1.Group("/stocks")
		{
			stocks.GET("/suggestions", stockHandler.GetSuggestions)
			stocks.GET("/suggest-stream", suggestStreamHandler.Stream)
			stocks.GET("/:symbol", stockHandler.GetStockInfo)
		}

		// Backtest routes
		backtests := v1.Group("/backtests")
		{
			backtests.POST("", backtestHandler.RunPortfolioBacktest)
			backtests.POST("/single", backtestHandler.RunSingleBacktest)
			backtests.GET("/state", backtestHandler.GetState)
		}

		// Screener route
		v1.POST("/screener", screenerHandler.Screen)
	}

	return router
}
