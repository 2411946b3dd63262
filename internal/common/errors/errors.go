// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeParseError            ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeUnknownInstrument     ErrorCode = "UNKNOWN_INSTRUMENT"
	ErrCodeUnknownFactor         ErrorCode = "UNKNOWN_FACTOR"
	ErrCodeInvalidInstrument     ErrorCode = "INVALID_INSTRUMENT"
	ErrCodeScoreEvaluationFailed ErrorCode = "SCORE_EVALUATION_FAILED"
	ErrCodeRegistryLoadFailed    ErrorCode = "REGISTRY_LOAD_FAILED"

	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout          ErrorCode = "TIMEOUT_ERROR"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication   ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"

	// metrics label for a job whose completion never reached the broker
	ErrCodeCompleteJobFailed ErrorCode = "COMPLETE_JOB_FAILED"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err.Error(), false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

func NewUnknownInstrumentError(instrumentID string) *StandardError {
	return newError(ErrCodeUnknownInstrument, "Score instrument not found in catalog",
		fmt.Sprintf("instrumentId: %s", instrumentID), false)
}

func NewUnknownFactorError(details string) *StandardError {
	return newError(ErrCodeUnknownFactor, "Risk factor is not part of the instrument", details, false)
}

func NewInvalidInstrumentError(err error) *StandardError {
	return newError(ErrCodeInvalidInstrument, "Score instrument definition is invalid", err.Error(), false)
}

func NewScoreEvaluationFailedError(err error) *StandardError {
	return newError(ErrCodeScoreEvaluationFailed, "Score evaluation failed", err.Error(), false)
}

func NewRegistryLoadFailedError(path string, err error) *StandardError {
	return newError(ErrCodeRegistryLoadFailed, "Instrument registry could not be loaded",
		fmt.Sprintf("path: %s, error: %s", path, err.Error()), false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthentication, "Authentication failed", details, false)
}

// GetRetryCount is the retry budget handed to Zeebe for a failed job.
// Scoring runs on static data, so only transport failures are retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeExternalService:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INSTRUMENT") || strings.Contains(codeStr, "REGISTRY"):
		return "CATALOG"
	case strings.Contains(codeStr, "FACTOR") || strings.Contains(codeStr, "SCORE"):
		return "SCORING"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SERVICE") || strings.Contains(codeStr, "TIMEOUT"):
		return "TRANSPORT"
	default:
		return "OTHER"
	}
}
