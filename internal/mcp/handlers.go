package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// defaultUserID is used when a tool call names no user; the lite binary is single-user.
const defaultUserID = "local"

// UserParams identifies the user a tool acts for
type UserParams struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user the records belong to; defaults to the local user"`
}

// ListInstrumentsParams defines parameters for list_instruments tool
type ListInstrumentsParams struct{}

// ScoreQuestionnaireParams defines parameters for score_questionnaire and preview_questionnaire
type ScoreQuestionnaireParams struct {
	UserID            string                 `json:"user_id,omitempty" jsonschema:"user the records belong to; defaults to the local user"`
	QuestionnaireType string                 `json:"questionnaire_type" jsonschema:"instrument id, e.g. mood-assessment"`
	Answers           map[string]interface{} `json:"answers" jsonschema:"answers keyed by question id (q1..q5)"`
}

// HistoryParams defines parameters for questionnaire_history tool
type HistoryParams struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user the records belong to; defaults to the local user"`
	Limit  int    `json:"limit,omitempty" jsonschema:"page size"`
	Offset int    `json:"offset,omitempty" jsonschema:"number of responses to skip"`
}

// FormParams carries a raw form for the life chart and journal tools
type FormParams struct {
	UserID string                 `json:"user_id,omitempty" jsonschema:"user the records belong to; defaults to the local user"`
	Form   map[string]interface{} `json:"form" jsonschema:"form fields by name"`
}

// ImportParams defines parameters for import_records tool
type ImportParams struct {
	Path string `json:"path" jsonschema:"export file name inside the export directory, or an absolute path"`
}

// ScoreResult defines the result structure for score_questionnaire tool
type ScoreResult struct {
	ResponseID        string `json:"response_id"`
	QuestionnaireType string `json:"questionnaire_type"`
	Score             int    `json:"score"`
	CompletedAt       string `json:"completed_at"`
}

// ExportResult defines the result structure for export_records tool
type ExportResult struct {
	Path string `json:"path"`
}

func userOrDefault(userID string) string {
	if userID = strings.TrimSpace(userID); userID != "" {
		return userID
	}
	return defaultUserID
}

func (s *Server) handleListInstruments(ctx context.Context, req *mcp.CallToolRequest, params ListInstrumentsParams) (*mcp.CallToolResult, any, error) {
	return s.jsonResult(map[string]interface{}{"instruments": s.services.Questionnaires.Instruments()})
}

func (s *Server) handleScoreQuestionnaire(ctx context.Context, req *mcp.CallToolRequest, params ScoreQuestionnaireParams) (*mcp.CallToolResult, any, error) {
	response, err := s.services.Questionnaires.Submit(ctx, userOrDefault(params.UserID),
		domain.InstrumentID(params.QuestionnaireType), domain.FormValues(params.Answers))
	if err != nil {
		return s.createErrorResult("Failed to score questionnaire", err), nil, nil
	}

	return s.jsonResult(ScoreResult{
		ResponseID:        response.ID,
		QuestionnaireType: string(response.InstrumentType),
		Score:             response.Score,
		CompletedAt:       response.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (s *Server) handlePreviewQuestionnaire(ctx context.Context, req *mcp.CallToolRequest, params ScoreQuestionnaireParams) (*mcp.CallToolResult, any, error) {
	breakdown, err := s.services.Questionnaires.Preview(domain.InstrumentID(params.QuestionnaireType), domain.FormValues(params.Answers))
	if err != nil {
		return s.createErrorResult("Failed to score questionnaire", err), nil, nil
	}
	return s.jsonResult(breakdown)
}

func (s *Server) handleQuestionnaireHistory(ctx context.Context, req *mcp.CallToolRequest, params HistoryParams) (*mcp.CallToolResult, any, error) {
	responses, err := s.services.Questionnaires.History(ctx, userOrDefault(params.UserID), params.Limit, params.Offset)
	if err != nil {
		return s.createErrorResult("Failed to list questionnaire history", err), nil, nil
	}
	if responses == nil {
		responses = []*domain.QuestionnaireResponse{}
	}
	return s.jsonResult(map[string]interface{}{"responses": responses})
}

func (s *Server) handleBuildLifeChart(ctx context.Context, req *mcp.CallToolRequest, params FormParams) (*mcp.CallToolResult, any, error) {
	chart, err := s.services.LifeCharts.Submit(ctx, userOrDefault(params.UserID), domain.FormValues(params.Form))
	if err != nil {
		return s.createErrorResult("Failed to build life chart", err), nil, nil
	}
	return s.jsonResult(chart)
}

func (s *Server) handleGetLifeChart(ctx context.Context, req *mcp.CallToolRequest, params UserParams) (*mcp.CallToolResult, any, error) {
	chart, err := s.services.LifeCharts.Get(ctx, userOrDefault(params.UserID))
	if errors.Is(err, domain.ErrNotFound) {
		return s.createErrorResult("No life chart saved yet; use build_life_chart first", nil), nil, nil
	}
	if err != nil {
		return s.createErrorResult("Failed to get life chart", err), nil, nil
	}
	return s.jsonResult(chart)
}

func (s *Server) handleLogMood(ctx context.Context, req *mcp.CallToolRequest, params FormParams) (*mcp.CallToolResult, any, error) {
	entry, err := s.services.Journal.AddMoodEntry(ctx, userOrDefault(params.UserID), domain.FormValues(params.Form))
	if err != nil {
		return s.createErrorResult("Failed to record mood entry", err), nil, nil
	}
	return s.jsonResult(entry)
}

func (s *Server) handleListMoodEntries(ctx context.Context, req *mcp.CallToolRequest, params UserParams) (*mcp.CallToolResult, any, error) {
	entries, err := s.services.Journal.ListMoodEntries(ctx, userOrDefault(params.UserID))
	if err != nil {
		return s.createErrorResult("Failed to list mood entries", err), nil, nil
	}
	if entries == nil {
		entries = []*domain.MoodEntry{}
	}
	return s.jsonResult(map[string]interface{}{"entries": entries})
}

func (s *Server) handleAddDiaryEntry(ctx context.Context, req *mcp.CallToolRequest, params FormParams) (*mcp.CallToolResult, any, error) {
	entry, err := s.services.Journal.AddDiaryEntry(ctx, userOrDefault(params.UserID), domain.FormValues(params.Form))
	if err != nil {
		return s.createErrorResult("Failed to record diary entry", err), nil, nil
	}
	return s.jsonResult(entry)
}

func (s *Server) handleListDiaryEntries(ctx context.Context, req *mcp.CallToolRequest, params UserParams) (*mcp.CallToolResult, any, error) {
	entries, err := s.services.Journal.ListDiaryEntries(ctx, userOrDefault(params.UserID))
	if err != nil {
		return s.createErrorResult("Failed to list diary entries", err), nil, nil
	}
	if entries == nil {
		entries = []*domain.DiaryEntry{}
	}
	return s.jsonResult(map[string]interface{}{"entries": entries})
}

func (s *Server) handleExportRecords(ctx context.Context, req *mcp.CallToolRequest, params UserParams) (*mcp.CallToolResult, any, error) {
	path, err := s.store.ExportToFile(ctx, userOrDefault(params.UserID), s.exportDir)
	if err != nil {
		return s.createErrorResult("Failed to export records", err), nil, nil
	}

	s.logger.WithField("path", path).Info("Exported records")
	return s.jsonResult(ExportResult{Path: path})
}

func (s *Server) handleImportRecords(ctx context.Context, req *mcp.CallToolRequest, params ImportParams) (*mcp.CallToolResult, any, error) {
	if params.Path == "" {
		return s.createErrorResult("path is required", nil), nil, nil
	}
	path := params.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.exportDir, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return s.createErrorResult("Failed to open import file", err), nil, nil
	}
	defer f.Close()

	result, err := s.store.ImportJSON(ctx, f)
	if err != nil {
		return s.createErrorResult("Failed to import records", err), nil, nil
	}

	s.logger.WithFields(logrus.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}).Info("Imported records")
	return s.jsonResult(result)
}

// jsonResult renders v as indented JSON text content
func (s *Server) jsonResult(v interface{}) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// createErrorResult creates a standardized error result
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := message
	if err != nil {
		errorText = fmt.Sprintf("%s: %v", message, err)
		s.logger.WithError(err).Warn(message)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
