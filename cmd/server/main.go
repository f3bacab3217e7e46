package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	router "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/http"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/jwttoken"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/config"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/httpserver"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/logger"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/postgres"
	platformredis "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/platform/redis"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/adapters"
	reporthandler "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/handler"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/metrics"
	reportservice "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/service"
	reportstore "github.com/shoreagents/shoreagents-asset-dog-sub006/internal/report/store"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	var store reportstore.Store
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = reportstore.NewPostgresStore(pool)
	} else {
		// Dev mode: seeded in-memory data, no database required.
		log.Warn("DATABASE_URL not set, using seeded in-memory store")
		mem := reportstore.NewMemoryStore()
		reportstore.Seed(mem)
		store = mem
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()
	cache := reportservice.NewPayloadCache(redisClient, cfg.ReportCache.TTL, log)
	svc := reportservice.New(
		adapters.Registry(store),
		adapters.NewActionsByUserAdapter(store),
		cache,
		log,
		m,
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "assetdog")

	deps := router.Deps{
		Report:    reporthandler.New(svc, log),
		Validator: tokens,
		Logger:    log,
		Store:     store,
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	srv := httpserver.New(cfg.Addr, router.New(deps))

	go func() {
		log.Info("starting assetdog report service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
