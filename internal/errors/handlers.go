package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dpshade/prompt-builder/internal/logger"
)

// ErrorHandler provides interface-specific error handling
type ErrorHandler interface {
	HandleError(err error) error
	FormatError(err error) string
}

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
	log     *logger.Logger
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool, log *logger.Logger) *CLIErrorHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &CLIErrorHandler{
		Verbose: verbose,
		log:     log,
	}
}

// HandleError handles errors for CLI interface
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	if h.Verbose {
		h.log.Debug("command failed",
			"code", appErr.Code,
			"severity", appErr.Severity,
			"error", appErr.Error(),
		)
	}

	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if appErr.Details != "" && (h.Verbose || appErr.Code == ErrCodeGenerationFailed) {
		message = fmt.Sprintf("%s: %s", message, appErr.Details)
	}

	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("❌ CRITICAL: %s", message)
	case SeverityError:
		return fmt.Sprintf("❌ ERROR: %s", message)
	case SeverityWarning:
		return fmt.Sprintf("⚠️  WARNING: %s", message)
	case SeverityInfo:
		return fmt.Sprintf("ℹ️  INFO: %s", message)
	default:
		return fmt.Sprintf("❌ %s", message)
	}
}

// ErrorBody is the failure body of every HTTP endpoint: error carries the code,
// message the human readable text.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HTTPErrorHandler handles errors for HTTP interface
type HTTPErrorHandler struct {
	IncludeDetails bool
	log            *logger.Logger
}

// NewHTTPErrorHandler creates a new HTTP error handler
func NewHTTPErrorHandler(includeDetails bool, log *logger.Logger) *HTTPErrorHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HTTPErrorHandler{
		IncludeDetails: includeDetails,
		log:            log,
	}
}

// HandleError logs the error and returns it as an AppError
func (h *HTTPErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	fields := []interface{}{"code", appErr.Code, "severity", appErr.Severity}
	if appErr.Cause != nil {
		fields = append(fields, "cause", appErr.Cause.Error())
	}
	switch appErr.Severity {
	case SeverityCritical, SeverityError:
		h.log.Error(appErr.Message, fields...)
	default:
		h.log.Warn(appErr.Message, fields...)
	}

	return appErr
}

// Body builds the response body for err
func (h *HTTPErrorHandler) Body(err error) ErrorBody {
	appErr := GetAppError(err)

	message := appErr.Message
	if appErr.Details != "" && (h.IncludeDetails || appErr.Code == ErrCodeGenerationFailed) {
		message = fmt.Sprintf("%s: %s", message, appErr.Details)
	}
	return ErrorBody{Error: string(appErr.Code), Message: message}
}

// FormatError formats an error as a JSON response body
func (h *HTTPErrorHandler) FormatError(err error) string {
	jsonBytes, _ := json.Marshal(h.Body(err))
	return string(jsonBytes)
}

// Respond logs err and returns the status code and body to write.
func (h *HTTPErrorHandler) Respond(err error) (int, ErrorBody) {
	appErr := GetAppError(err)
	h.HandleError(appErr)
	return StatusCode(appErr), h.Body(appErr)
}

// WriteHTTPError writes an error response to a plain http.ResponseWriter
func (h *HTTPErrorHandler) WriteHTTPError(w http.ResponseWriter, err error) {
	status, body := h.Respond(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// StatusCode maps error codes to HTTP status codes
func StatusCode(err error) int {
	appErr := GetAppError(err)

	switch appErr.Code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeContractViolation:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeCommandNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeGenerationFailed, ErrCodeNetworkFailure:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// TUIErrorHandler handles errors for TUI interface
type TUIErrorHandler struct {
	ShowDetails bool
	log         *logger.Logger
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool, log *logger.Logger) *TUIErrorHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TUIErrorHandler{
		ShowDetails: showDetails,
		log:         log,
	}
}

// HandleError handles errors for TUI interface
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)
	h.log.Warn("tui error",
		"code", appErr.Code,
		"category", appErr.Category,
		"error", appErr.Error(),
	)
	return appErr
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if (h.ShowDetails || appErr.Code == ErrCodeGenerationFailed) && appErr.Details != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, appErr.Details)
	}

	return message
}

// GetErrorStyle returns styling information for TUI based on error severity
func (h *TUIErrorHandler) GetErrorStyle(err error) (string, string) {
	appErr := GetAppError(err)

	switch appErr.Severity {
	case SeverityCritical:
		return "🔥", "#ff0000"
	case SeverityError:
		return "❌", "#ff6b6b"
	case SeverityWarning:
		return "⚠️", "#feca57"
	case SeverityInfo:
		return "ℹ️", "#48cae4"
	default:
		return "❌", "#ff6b6b"
	}
}
