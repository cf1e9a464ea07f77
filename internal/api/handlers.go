package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eupolar/eupolar-server/internal/domain"
	"github.com/eupolar/eupolar-server/internal/middleware"
)

func (s *Server) handleListInstruments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"instruments": s.services.Questionnaires.Instruments()})
}

func (s *Server) handleSubmitQuestionnaire(c *gin.Context) {
	answers, err := bindFormValues(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	response, err := s.services.Questionnaires.Submit(c.Request.Context(), middleware.UserID(c),
		domain.InstrumentID(c.Param("type")), answers)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (s *Server) handlePreviewQuestionnaire(c *gin.Context) {
	answers, err := bindFormValues(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	breakdown, err := s.services.Questionnaires.Preview(domain.InstrumentID(c.Param("type")), answers)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (s *Server) handleQuestionnaireHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		s.respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		s.respondError(c, err)
		return
	}

	responses, err := s.services.Questionnaires.History(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if responses == nil {
		responses = []*domain.QuestionnaireResponse{}
	}
	c.JSON(http.StatusOK, gin.H{"responses": responses, "offset": offset})
}

func (s *Server) handleSubmitLifeChart(c *gin.Context) {
	values, err := bindFormValues(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	chart, err := s.services.LifeCharts.Submit(c.Request.Context(), middleware.UserID(c), values)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (s *Server) handleGetLifeChart(c *gin.Context) {
	chart, err := s.services.LifeCharts.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

func (s *Server) handleAddMoodEntry(c *gin.Context) {
	values, err := bindFormValues(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	entry, err := s.services.Journal.AddMoodEntry(c.Request.Context(), middleware.UserID(c), values)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleListMoodEntries(c *gin.Context) {
	entries, err := s.services.Journal.ListMoodEntries(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.MoodEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleAddDiaryEntry(c *gin.Context) {
	values, err := bindFormValues(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	entry, err := s.services.Journal.AddDiaryEntry(c.Request.Context(), middleware.UserID(c), values)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleListDiaryEntries(c *gin.Context) {
	entries, err := s.services.Journal.ListDiaryEntries(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []*domain.DiaryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// queryInt reads an optional non-negative integer query parameter; absent is 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(name, "must be a non-negative integer", raw)
	}
	return n, nil
}
