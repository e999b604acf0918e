package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shelfcheck/internal/platform/config"
	"shelfcheck/internal/platform/httpserver"
	"shelfcheck/internal/platform/logger"
	"shelfcheck/internal/platform/middleware"
	"shelfcheck/internal/platform/ratelimit"
	platformredis "shelfcheck/internal/platform/redis"
	"shelfcheck/internal/validation"
	"shelfcheck/internal/validation/handler"
	"shelfcheck/internal/validation/metrics"
	"shelfcheck/internal/validation/models"
	"shelfcheck/pkg/platform/findings"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the validation packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var limiterStore ratelimit.Store = ratelimit.NewInMemoryStore()
	if redisClient != nil {
		limiterStore = ratelimit.NewRedisStore(redisClient.Client)
		defer redisClient.Close()
	}

	var publisher findings.Publisher = findings.Nop{}
	if len(cfg.Findings.Brokers) > 0 {
		kafka, err := findings.NewKafka(cfg.Findings.Brokers, cfg.Findings.Topic, findings.WithLogger(log))
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		publisher = kafka
		defer kafka.Close()
	}

	severity, err := models.ParseSeverity(cfg.Findings.SeverityThreshold)
	if err != nil {
		log.Error("invalid findings severity threshold", "error", err)
		os.Exit(1)
	}

	engine := validation.NewEngine(
		validation.WithLogger(log),
		validation.WithMetrics(metrics.New()),
	)

	validateHandler, err := handler.New(engine, cfg.MaxBatchSize,
		handler.WithLogger(log),
		handler.WithPublisher(publisher, severity),
	)
	if err != nil {
		log.Error("handler construction failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		if cfg.JWTSigningKey != "" {
			r.Use(middleware.RequireAuth([]byte(cfg.JWTSigningKey), log))
		}
		if cfg.RateLimit.Enabled {
			r.Use(middleware.RateLimit(limiterStore, cfg.RateLimit.Limit, cfg.RateLimit.Window, log))
		}
		validateHandler.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting shelfcheck",
		"addr", cfg.Addr,
		"max_batch_size", cfg.MaxBatchSize,
		"redis", redisClient != nil,
		"kafka", len(cfg.Findings.Brokers) > 0,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
