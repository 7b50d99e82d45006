package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/config"
	"github.com/hoangvu/gesture-crop/internal/http/handlers"
	"github.com/hoangvu/gesture-crop/internal/http/routes"
	"github.com/hoangvu/gesture-crop/internal/services/ocr"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
	"github.com/hoangvu/gesture-crop/internal/services/queue"
	"github.com/hoangvu/gesture-crop/internal/services/storage"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize services
	engine := processor.NewCropEngineWithQuality(cfg.Crop.JPEGQuality)
	pipe := pipeline.New(engine)

	store, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	var extractor ocr.Extractor
	if cfg.OCR.Endpoint != "" {
		extractor = ocr.NewHTTPExtractor(cfg.OCR.Endpoint, cfg.OCR.APIKey, cfg.OCR.Model, cfg.OCR.Timeout)
		defer extractor.Close()
	} else {
		logger.Warn("OCR endpoint not configured, recognition endpoints disabled")
	}

	queueSvc, err := queue.NewQueueService(cfg.RabbitMQ.URL, pipe, store, extractor, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service, async crops disabled", zap.Error(err))
		queueSvc = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if queueSvc != nil {
		defer queueSvc.Close()
		for i := 0; i < cfg.RabbitMQ.Workers; i++ {
			if err := queueSvc.StartWorker(ctx, i); err != nil {
				logger.Error("Failed to start crop worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	cropHandler := handlers.NewCropHandler(pipe, engine, store, queueSvc, extractor, logger, cfg)

	router := routes.NewRouter(cropHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
