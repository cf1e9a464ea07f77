package domain

import (
	"fmt"
	"time"
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeUnknownInstrument = "UNKNOWN_INSTRUMENT"
	ErrCodeMalformedAnswer   = "MALFORMED_ANSWER"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeRateLimit         = "RATE_LIMIT_EXCEEDED"
	ErrCodeAuthentication    = "AUTHENTICATION_ERROR"
	ErrCodeInternalServer    = "INTERNAL_SERVER_ERROR"
	ErrCodeValidation        = "VALIDATION_ERROR"
)

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// UnknownInstrumentError is returned when scoring is requested for an instrument
// that is not in the static definition table. It is deterministic: retrying cannot succeed.
type UnknownInstrumentError struct {
	Instrument InstrumentID
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("unknown instrument %q", string(e.Instrument))
}

// Unwrap lets callers match with errors.Is(err, ErrUnknownInstrument).
func (e *UnknownInstrumentError) Unwrap() error {
	return ErrUnknownInstrument
}

// MalformedAnswerError reports the slot whose raw answer could not be coerced to a number.
type MalformedAnswerError struct {
	Instrument InstrumentID `json:"instrument"`
	Slot       string       `json:"slot"`
	Value      interface{}  `json:"value"`
	Reason     string       `json:"reason"`
}

func (e *MalformedAnswerError) Error() string {
	return fmt.Sprintf("malformed answer for %s slot %s: %s", e.Instrument, e.Slot, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrMalformedAnswer).
func (e *MalformedAnswerError) Unwrap() error {
	return ErrMalformedAnswer
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
