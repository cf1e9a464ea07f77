// Package main provides the standalone eupolar MCP server.
// It needs no external services: records live in SQLite under the data directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/eupolar/eupolar-server/internal/config"
	"github.com/eupolar/eupolar-server/internal/logging"
	"github.com/eupolar/eupolar-server/internal/mcp"
)

func main() {
	cfg := config.LoadLiteConfig()

	// stdout carries the protocol, so logs go to stderr
	logger := logging.NewLogger(cfg.Logging())
	logger.WithField("data_dir", cfg.DataDir).Info("Starting eupolar MCP server (lite)")

	server, err := mcp.NewLiteServer(cfg, mcp.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("MCP server failed")
		server.Close()
		os.Exit(1)
	}

	logger.Info("eupolar MCP server stopped")
}
