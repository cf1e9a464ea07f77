package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/api"
	"github.com/eupolar/eupolar-server/internal/cache"
	"github.com/eupolar/eupolar-server/internal/config"
	"github.com/eupolar/eupolar-server/internal/database"
	"github.com/eupolar/eupolar-server/internal/domain"
	"github.com/eupolar/eupolar-server/internal/logging"
	"github.com/eupolar/eupolar-server/internal/repository"
	"github.com/eupolar/eupolar-server/internal/service"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		logrus.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := logging.NewLogger(cfg.Logging)

	if strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewConnection(ctx, database.ConfigFromDomain(cfg.Database), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		runner, err := database.NewMigrationRunner(configManager.GetDatabaseURL(), logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create migration runner")
		}
		if err := runner.Up(ctx); err != nil {
			runner.Close()
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		runner.Close()
	}

	store := repository.NewPostgresStore(db, logger)

	checks := map[string]api.HealthCheck{"database": db.Health}
	lifeChartCache := newLifeChartCache(logger, cfg.Cache, checks)

	services := api.Services{
		Questionnaires: service.NewQuestionnaireService(logger, service.NewScoringEngine(), store, cfg.Scoring),
		LifeCharts:     service.NewLifeChartService(logger, service.NewTimelineBuilder(), store, lifeChartCache),
		Journal:        service.NewJournalService(logger, store),
	}

	server := api.NewServer(logger, cfg, services, checks)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"host":        cfg.Server.Host,
		"port":        cfg.Server.Port,
	}).Info("Starting eupolar server")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLifeChartCache uses Redis when configured and reachable, the in-process LRU otherwise.
func newLifeChartCache(logger *logrus.Logger, cfg domain.CacheConfig, checks map[string]api.HealthCheck) domain.LifeChartCache {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache(cfg.MaxMemoryItems, cfg.DefaultTTL)
	}

	redisCache, err := cache.NewRedisCache(logger, cfg)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, falling back to in-memory life chart cache")
		return cache.NewMemoryCache(cfg.MaxMemoryItems, cfg.DefaultTTL)
	}
	checks["cache"] = redisCache.Ping
	return redisCache
}
