package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"labelprint-service/app"
	"labelprint-service/apperrors"
	"labelprint-service/config"
	"labelprint-service/controllers"
	"labelprint-service/database"
	"labelprint-service/logger"
	"labelprint-service/middleware"
	"labelprint-service/routes"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.Initialize(cfg.AppEnv)
	defer zlog.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pipeline, err := app.NewPipeline(ctx, cfg, reg, zlog)
	if err != nil {
		zlog.Fatal("Failed to build print pipeline", zap.Error(err))
	}
	defer pipeline.Close() //nolint:errcheck

	printMiddleware := []gin.HandlerFunc{
		middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	}
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, zlog)
		if err != nil {
			zlog.Warn("Redis unavailable, idempotency keys disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			store := database.NewIdempotencyRepository(redisClient, cfg.IdempotencyTTL)
			printMiddleware = append(printMiddleware, middleware.Idempotency(store, zlog))
		}
	}

	printController := controllers.NewPrintController(pipeline.Service, cfg.Printers, zlog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.PrometheusMiddleware(reg))
	r.Use(middleware.MetricsMiddleware(pipeline.CloudWatch, "labelprint-service"))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterSystemRoutes(r, reg)
	routes.RegisterPrintRoutes(r, printController, printMiddleware...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	zlog.Info("Label print service started",
		zap.String("port", cfg.Port),
		zap.Int("printers", len(cfg.Printers)))
	<-quit
	zlog.Info("Shutting down label print service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited cleanly")
}
