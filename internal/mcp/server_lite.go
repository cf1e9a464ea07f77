package mcp

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/cache"
	litecfg "github.com/eupolar/eupolar-server/internal/config"
	"github.com/eupolar/eupolar-server/internal/journal"
	"github.com/eupolar/eupolar-server/internal/logging"
	"github.com/eupolar/eupolar-server/internal/service"
)

// LiteServer is a lightweight MCP server that requires no external services.
// It uses an in-memory life chart cache and SQLite for persistence.
type LiteServer struct {
	*Server
	config *litecfg.LiteConfig
	store  *journal.SQLiteStore
	cache  *cache.MemoryCache
	logger *logrus.Logger
}

// LiteServerOption is a functional option for LiteServer.
type LiteServerOption func(*LiteServer) error

// WithStore sets a custom SQLite store.
func WithStore(store *journal.SQLiteStore) LiteServerOption {
	return func(s *LiteServer) error {
		s.store = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) LiteServerOption {
	return func(s *LiteServer) error {
		s.logger = logger
		return nil
	}
}

// NewLiteServer creates a new lightweight MCP server instance.
func NewLiteServer(cfg *litecfg.LiteConfig, opts ...LiteServerOption) (*LiteServer, error) {
	server := &LiteServer{config: cfg}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if server.logger == nil {
		server.logger = logging.NewLogger(cfg.Logging())
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if server.store == nil {
		store, err := journal.NewSQLiteStore(cfg.JournalDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create journal store: %w", err)
		}
		server.store = store
	}

	server.cache = cache.NewMemoryCache(cfg.CacheMaxItems, cfg.CacheTTL)

	services := Services{
		Questionnaires: service.NewQuestionnaireService(server.logger, service.NewScoringEngine(), server.store, cfg.Scoring()),
		LifeCharts:     service.NewLifeChartService(server.logger, service.NewTimelineBuilder(), server.store, server.cache),
		Journal:        service.NewJournalService(server.logger, server.store),
	}
	server.Server = NewServer(server.logger, services, server.store, cfg.ExportDir())

	server.logger.WithFields(logrus.Fields{
		"data_dir":        cfg.DataDir,
		"unknown_policy":  cfg.UnknownInstrumentPolicy,
		"cache_max_items": cfg.CacheMaxItems,
	}).Info("Lite server initialized successfully")
	return server, nil
}

// Start runs the MCP server over stdio.
func (s *LiteServer) Start(ctx context.Context) error {
	return s.Server.Start(ctx)
}

// Close cleans up server resources.
func (s *LiteServer) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close journal store")
			return err
		}
	}
	return nil
}

// GetStore returns the journal store for external access.
func (s *LiteServer) GetStore() *journal.SQLiteStore {
	return s.store
}

// GetCache returns the memory cache for external access.
func (s *LiteServer) GetCache() *cache.MemoryCache {
	return s.cache
}
