package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"prediction-service/internal/adapters/primary/http/handlers"
	"prediction-service/internal/adapters/primary/http/middleware"
	"prediction-service/internal/adapters/secondary/artifact"
	"prediction-service/internal/adapters/secondary/cache"
	"prediction-service/internal/adapters/secondary/statsd"
	"prediction-service/internal/config"
	ports "prediction-service/internal/core/ports/output"
	"prediction-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	metrics, err := statsd.NewRecorder(&cfg.Metrics)
	if err != nil {
		log.Fatalf("init metrics: %v", err)
	}

	// ============================================================================
	// Wiring
	// ============================================================================

	store := services.NewModelStore(artifact.NewFileLoader(cfg.Model.MaxBytes), metrics)
	gate := services.NewGate()
	h := handlers.New(store, gate, metrics)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), middleware.CORS(cfg.CORS.AllowedOrigins))
	h.RegisterRoutes(router)

	// Start listening before the model is loaded so probes see "unavailable"
	// rather than a refused connection. Predictions are rejected until the
	// gate opens.
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	pipeline, err := loadPipeline(context.Background(), cfg, store, metrics)
	if err != nil {
		log.Fatalf("model store: %v", err)
	}
	if err := gate.Open(pipeline); err != nil {
		log.Fatalf("open prediction gate: %v", err)
	}
	log.Info("accepting prediction traffic")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func loadPipeline(ctx context.Context, cfg *config.Config, store *services.ModelStore, metrics ports.MetricsRecorder) (*services.Pipeline, error) {
	model, err := store.Load(ctx, cfg.Model.Path)
	if err != nil {
		return nil, err
	}

	var predictionCache ports.PredictionCache
	if cfg.Cache.Size > 0 {
		predictionCache, err = cache.NewLRU(cfg.Cache.Size)
		if err != nil {
			return nil, err
		}
	}

	validator := services.NewRequestValidator(model.Features, cfg.Validation.Strict)
	predictor := services.NewPredictionService(model, predictionCache, metrics)
	return services.NewPipeline(validator, predictor), nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if cfg.Logger.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAge:     cfg.Logger.MaxAgeDays,
			Compress:   true,
		}))
	}
}
