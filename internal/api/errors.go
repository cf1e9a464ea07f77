package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
	"github.com/eupolar/eupolar-server/internal/middleware"
)

// respondError maps service errors to an APIError response. Anything unrecognized
// came from storage.
func (s *Server) respondError(c *gin.Context, err error) {
	status, apiErr := s.toAPIError(c, err)
	if status >= http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"correlation_id": apiErr.RequestID,
			"error":          err,
		}).Error("Request failed")
	}
	c.AbortWithStatusJSON(status, apiErr)
}

func (s *Server) toAPIError(c *gin.Context, err error) (int, *domain.APIError) {
	requestID := c.GetString(middleware.CorrelationIDKey)

	var (
		unknown    *domain.UnknownInstrumentError
		malformed  *domain.MalformedAnswerError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound, domain.NewAPIError(domain.ErrCodeUnknownInstrument,
			"unknown questionnaire type", string(unknown.Instrument), requestID)
	case errors.As(err, &malformed):
		return http.StatusUnprocessableEntity, domain.NewAPIError(domain.ErrCodeMalformedAnswer,
			"malformed answer", fmt.Sprintf("%s: %s", malformed.Slot, malformed.Reason), requestID)
	case errors.As(err, &validation):
		return http.StatusBadRequest, domain.NewAPIError(domain.ErrCodeValidation,
			"validation failed", fmt.Sprintf("%s: %s", validation.Field, validation.Message), requestID)
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, domain.NewAPIError(domain.ErrCodeInvalidInput,
			"request body could not be parsed", "", requestID)
	case errors.Is(err, domain.ErrMissingUser):
		return http.StatusUnauthorized, domain.NewAPIError(domain.ErrCodeAuthentication,
			"missing user identity", "", requestID)
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.NewAPIError(domain.ErrCodeNotFound,
			"not found", "", requestID)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, domain.NewAPIError(domain.ErrCodeDatabaseError,
			"storage timed out", "", requestID)
	default:
		return http.StatusInternalServerError, domain.NewAPIError(domain.ErrCodeDatabaseError,
			"storage error", "", requestID)
	}
}
