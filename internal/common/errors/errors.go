// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Credit decisioning error codes.
const (
	ErrCodeApplicantValidationFailed ErrorCode = "APPLICANT_VALIDATION_FAILED"
	ErrCodeNonPositiveNetIncome      ErrorCode = "NON_POSITIVE_NET_INCOME"

	ErrCodeBureauUnavailable    ErrorCode = "BUREAU_UNAVAILABLE"
	ErrCodeBureauTimeout        ErrorCode = "BUREAU_TIMEOUT"
	ErrCodeBureauReportNotFound ErrorCode = "BUREAU_REPORT_NOT_FOUND"

	ErrCodeDirectoryLoadFailed  ErrorCode = "DIRECTORY_LOAD_FAILED"
	ErrCodeWeightConfigInvalid  ErrorCode = "WEIGHT_CONFIG_INVALID"
	ErrCodeScoringFailed        ErrorCode = "SCORING_FAILED"

	ErrCodeDatabaseInsertFailed       ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateDecision          ErrorCode = "DUPLICATE_DECISION"
	ErrCodeDecisionIndexFailed        ErrorCode = "DECISION_INDEX_FAILED"
	ErrCodeNotificationSendFailed     ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeResponseValidationFailed   ErrorCode = "RESPONSE_VALIDATION_FAILED"
	ErrCodeParseError                 ErrorCode = "PARSE_ERROR"
)

// StandardError represents a structured application error.
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

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewApplicantValidationError reports every field violation at once so the
// caller can fix them in one round trip.
func NewApplicantValidationError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicantValidationFailed,
		Message:   "Applicant input failed validation",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewNonPositiveNetIncomeError creates a non-retryable affordability error.
func NewNonPositiveNetIncomeError(netMonthly float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeNonPositiveNetIncome,
		Message:   "Derived net monthly income must be positive",
		Details:   fmt.Sprintf("netMonthlyIncome: %.2f", netMonthly),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewBureauUnavailableError creates a retryable upstream bureau error.
func NewBureauUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBureauUnavailable,
		Message:   "Credit bureau is unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBureauTimeoutError creates a retryable bureau timeout error.
func NewBureauTimeoutError(identityNumber string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBureauTimeout,
		Message:   "Credit bureau request timed out",
		Details:   fmt.Sprintf("identityNumber: %s", maskIdentity(identityNumber)),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBureauReportNotFoundError creates a non-retryable not-found error.
func NewBureauReportNotFoundError(identityNumber string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBureauReportNotFound,
		Message:   "No bureau report for applicant",
		Details:   fmt.Sprintf("identityNumber: %s", maskIdentity(identityNumber)),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryLoadError creates a retryable directory load error. The process
// fails closed: no scoring is served until the directory loads.
func NewDirectoryLoadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryLoadFailed,
		Message:   "Employer directory failed to load",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWeightConfigError creates a non-retryable policy config error.
func NewWeightConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWeightConfigInvalid,
		Message:   "Scoring policy configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoringFailedError creates a non-retryable engine error.
func NewScoringFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoringFailed,
		Message:   "Credit decision engine failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable persistence error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Decision record insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateDecisionError creates a non-retryable duplicate error.
func NewDuplicateDecisionError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateDecision,
		Message:   "Decision already recorded for application",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDecisionIndexFailedError creates a retryable analytics indexing error.
func NewDecisionIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecisionIndexFailed,
		Message:   "Decision document indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Decision notification send failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseValidationFailedError creates a non-retryable response shape error.
func NewResponseValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseValidationFailed,
		Message:   "Decision response failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable payload parse error.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Job variables could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Classification Helpers
// ==========================

// GetRetryCount returns how many retries a failed job should get for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeBureauUnavailable, ErrCodeBureauTimeout,
		ErrCodeDatabaseInsertFailed, ErrCodeDecisionIndexFailed,
		ErrCodeNotificationSendFailed, ErrCodeDirectoryLoadFailed:
		return 3
	default:
		return 0
	}
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeApplicantValidationFailed, ErrCodeNonPositiveNetIncome, ErrCodeParseError:
		return "caller"
	case ErrCodeBureauUnavailable, ErrCodeBureauTimeout, ErrCodeBureauReportNotFound:
		return "upstream"
	case ErrCodeDirectoryLoadFailed, ErrCodeWeightConfigInvalid:
		return "startup"
	case ErrCodeDatabaseInsertFailed, ErrCodeDuplicateDecision, ErrCodeDecisionIndexFailed:
		return "persistence"
	default:
		return "internal"
	}
}

// ConvertToBPMNError maps a StandardError onto the workflow error contract.
// Caller-facing messages stay generic for upstream failures; the correlation
// id travels in the error variables, not in the message.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	message := stdErr.Message
	if GetErrorCategory(stdErr.Code) == "upstream" {
		message = "Could not complete credit check"
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   GetRetryCount(stdErr.Code),
		ErrorVariables: map[string]interface{}{
			"errorCategory": GetErrorCategory(stdErr.Code),
		},
	}
}

// maskIdentity hides all but the last three digits of an identity number.
func maskIdentity(id string) string {
	if len(id) <= 3 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-3) + id[len(id)-3:]
}
