// Package errors provides unified error handling across the prompt builder.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the foundation for error handling across every interface (CLI, HTTP, TUI).
// Composition, analysis and generation failures are all represented as AppError values so
// that each interface can render them consistently.
//
// KEY RESPONSIBILITIES:
// - Define the error codes that cross the generation contract (VALIDATION_ERROR, GENERATION_FAILED, ...)
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while keeping the core error data stable
//
// INTEGRATION POINTS:
// - internal/relay/relay.go: upstream failures are wrapped as GENERATION_FAILED
// - internal/client/client.go: error response bodies are decoded back into AppErrors
// - internal/api/server.go: HTTPErrorHandler maps AppErrors to status codes and the {error, message} body
// - internal/cli/root.go: CLIErrorHandler formats AppErrors for terminal display
// - internal/ui/model.go: TUIErrorHandler provides styling for the error banner
// - internal/validation/validator.go: ValidationResult.ToAppError() converts validation failures
// - internal/models/draft.go: unknown constraint kinds surface as CONTRACT_VIOLATION
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like ValidationError(), GenerationFailed()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Handle errors: Use the handler specific to the interface (CLI, HTTP, TUI)
// - Check types: Use GetAppError() and IsCode() for type-safe error handling
//
// No error produced here is fatal to a session. Generation failures are recoverable
// through the caller's demo fallback.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeContractViolation ErrorCode = "CONTRACT_VIOLATION"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"

	// Generation errors
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"

	// Network errors
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeTimeout        ErrorCode = "TIMEOUT"

	// Export errors
	ErrCodeClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrCodeExportFailed         ErrorCode = "EXPORT_FAILED"

	// Command errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGeneration ErrorCategory = "generation"
	CategoryService    ErrorCategory = "service"
	CategoryNetwork    ErrorCategory = "network"
	CategoryExport     ErrorCategory = "export"
	CategoryCommand    ErrorCategory = "command"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning
	case ErrCodeContractViolation:
		return CategoryValidation, SeverityError

	case ErrCodeGenerationFailed:
		return CategoryGeneration, SeverityError
	case ErrCodeRateLimited:
		return CategoryGeneration, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo

	case ErrCodeNetworkFailure, ErrCodeTimeout:
		return CategoryNetwork, SeverityError

	case ErrCodeClipboardUnavailable:
		return CategoryExport, SeverityWarning
	case ErrCodeExportFailed:
		return CategoryExport, SeverityError

	case ErrCodeCommandNotFound:
		return CategoryCommand, SeverityInfo

	default:
		return CategorySystem, SeverityError
	}
}

// GetAppError extracts an AppError from an error chain, or converts it to one
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// KnownCode reports whether s names one of the codes above.
func KnownCode(s string) (ErrorCode, bool) {
	switch code := ErrorCode(s); code {
	case ErrCodeValidation, ErrCodeContractViolation, ErrCodeInvalidInput,
		ErrCodeGenerationFailed, ErrCodeRateLimited,
		ErrCodeInternalError, ErrCodeNotFound,
		ErrCodeNetworkFailure, ErrCodeTimeout,
		ErrCodeClipboardUnavailable, ErrCodeExportFailed,
		ErrCodeCommandNotFound:
		return code, true
	default:
		return "", false
	}
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func ContractViolation(message string) *AppError {
	return NewAppError(ErrCodeContractViolation, message)
}

// GenerationFailed wraps an upstream failure. The upstream message is kept in Details.
func GenerationFailed(err error) *AppError {
	appErr := Wrap(err, ErrCodeGenerationFailed, "Prompt generation failed")
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func NetworkError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeNetworkFailure, fmt.Sprintf("Network operation failed: %s", operation))
}

func ExportError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeExportFailed, fmt.Sprintf("Export failed: %s", operation))
}

func CommandNotFoundError(command string) *AppError {
	return NewAppError(ErrCodeCommandNotFound, fmt.Sprintf("Command '%s' not found", command))
}
