// Package mcp exposes the questionnaire, life chart and journal services as MCP tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/journal"
	"github.com/eupolar/eupolar-server/internal/service"
)

const (
	serverName    = "eupolar-mcp"
	serverVersion = "v1.0.0"
)

// Services are the application services behind the tools.
type Services struct {
	Questionnaires *service.QuestionnaireService
	LifeCharts     *service.LifeChartService
	Journal        *service.JournalService
}

// Server represents the eupolar MCP server
type Server struct {
	mcpServer *mcp.Server
	services  Services
	store     *journal.SQLiteStore
	exportDir string
	logger    *logrus.Logger
}

// NewServer creates an MCP server and registers every tool. store and exportDir enable
// the export and import tools; store may be nil.
func NewServer(logger *logrus.Logger, services Services, store *journal.SQLiteStore, exportDir string) *Server {
	serverInfo := &mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}

	s := &Server{
		mcpServer: mcp.NewServer(serverInfo, nil),
		services:  services,
		store:     store,
		exportDir: exportDir,
		logger:    logger,
	}
	s.registerTools()

	return s
}

// Start runs the server over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("transport_type", "stdio").Info("Starting eupolar MCP server")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_instruments",
		Description: "List the questionnaire instruments with their questions, answer ranges and scoring transforms",
	}, s.handleListInstruments)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_questionnaire",
		Description: "Score a questionnaire submission (0-100) and record it in the user's history",
	}, s.handleScoreQuestionnaire)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "preview_questionnaire",
		Description: "Score a questionnaire submission with a per-question breakdown without recording it",
	}, s.handlePreviewQuestionnaire)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "questionnaire_history",
		Description: "List the user's recorded questionnaire responses, newest first",
	}, s.handleQuestionnaireHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "build_life_chart",
		Description: "Build and save the user's life chart timeline from the retrospective episode form",
	}, s.handleBuildLifeChart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_life_chart",
		Description: "Get the user's saved life chart",
	}, s.handleGetLifeChart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_mood",
		Description: "Record a daily mood entry (mood level 1-10, optional sleep hours, medications and notes)",
	}, s.handleLogMood)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_mood_entries",
		Description: "List the user's 30 most recent daily mood entries",
	}, s.handleListMoodEntries)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_diary_entry",
		Description: "Record a mood diary page (mood morning/afternoon/evening, energy, anxiety, irritability)",
	}, s.handleAddDiaryEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_diary_entries",
		Description: "List the user's 30 most recent mood diary pages",
	}, s.handleListDiaryEntries)

	if s.store != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "export_records",
			Description: "Export all of the user's records to a JSON file in the data directory",
		}, s.handleExportRecords)

		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "import_records",
			Description: "Import records from a JSON export file, skipping records already present",
		}, s.handleImportRecords)
	}

	s.logger.Debug("Registered MCP tools")
}
