package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
	"github.com/eupolar/eupolar-server/internal/middleware"
	"github.com/eupolar/eupolar-server/internal/service"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// maxBodyBytes bounds request bodies; the largest form has a few dozen short fields.
const maxBodyBytes = 1 << 20

// Services are the application services the handlers call.
type Services struct {
	Questionnaires *service.QuestionnaireService
	LifeCharts     *service.LifeChartService
	Journal        *service.JournalService
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	logger   *logrus.Logger
	config   *domain.Config
	services Services
	checks   map[string]HealthCheck
	limiter  *middleware.RateLimiter
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance. The gin mode is the caller's choice.
func NewServer(logger *logrus.Logger, config *domain.Config, services Services, checks map[string]HealthCheck) *Server {
	router := gin.New()

	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger(logger))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithFields(logrus.Fields{
			"correlation_id": c.GetString(middleware.CorrelationIDKey),
			"panic":          recovered,
		}).Error("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.NewAPIError(
			domain.ErrCodeInternalServer, "internal server error", "", c.GetString(middleware.CorrelationIDKey)))
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestTimeout(config.Server.RequestTimeout))

	s := &Server{
		logger:   logger,
		config:   config,
		services: services,
		checks:   checks,
		router:   router,
	}
	if config.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(config.RateLimit)
	}

	s.setupRoutes()
	return s
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if s.limiter != nil {
		go s.limiter.RunCleanup(ctx, time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled {
			err = s.server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.WithFields(logrus.Fields{"addr": addr, "tls": cfg.TLSEnabled}).Info("HTTP server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/instruments", s.handleListInstruments)

	user := v1.Group("")
	user.Use(middleware.RequireUser())
	if s.limiter != nil {
		user.Use(s.limiter.Middleware())
	}
	{
		user.POST("/questionnaires/:type", s.handleSubmitQuestionnaire)
		user.POST("/questionnaires/:type/preview", s.handlePreviewQuestionnaire)
		user.GET("/questionnaires", s.handleQuestionnaireHistory)

		user.POST("/lifechart", s.handleSubmitLifeChart)
		user.GET("/lifechart", s.handleGetLifeChart)

		user.POST("/mood-entries", s.handleAddMoodEntry)
		user.GET("/mood-entries", s.handleListMoodEntries)
		user.POST("/diary-entries", s.handleAddDiaryEntry)
		user.GET("/diary-entries", s.handleListDiaryEntries)
	}
}

// handleHealth runs every dependency check
func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":    state,
		"checks":    results,
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}
