// Package validation provides centralized input validation for every interface.
//
// SYSTEM ARCHITECTURE ROLE:
// This module sits between the interfaces (CLI, HTTP, TUI) and the core. Untrusted input
// (request bodies, command parameters, constraint kind tags) is checked here before it
// reaches the composer or the relay, so the core can fail fast on contract violations.
//
// KEY RESPONSIBILITIES:
// - Validate structs with go-playground/validator tags (notblank, constraintkind, templatekey)
// - Report field-level failures using the JSON field names clients send
// - Convert failures into VALIDATION_ERROR or CONTRACT_VIOLATION AppErrors
//
// INTEGRATION POINTS:
// - internal/api/handlers.go: request bodies are bound and validated with BindJSON
// - internal/commands/types.go: CommandExecutor validates decoded command parameters
// - internal/errors/errors.go: ValidationResult.ToAppError() converts failures to AppError format
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator wraps a configured go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom tags registered
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("constraintkind", func(fl validator.FieldLevel) bool {
		return models.ConstraintKind(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("templatekey", func(fl validator.FieldLevel) bool {
		key := fl.Field().String()
		if key == "" {
			return true
		}
		_, ok := models.LookupTemplate(models.TemplateKey(key))
		return ok
	})

	return &Validator{validate: v}
}

// Validate checks s against its struct tags
func (v *Validator) Validate(s interface{}) *ValidationResult {
	err := v.validate.Struct(s)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "", Code: "invalid", Message: err.Error()}},
		}
	}

	result := &ValidationResult{Valid: false}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldPath(fe),
			Code:    fe.Tag(),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return result
}

// Check validates s and returns an AppError on failure
func (v *Validator) Check(s interface{}) error {
	if appErr := v.Validate(s).ToAppError(); appErr != nil {
		return appErr
	}
	return nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "constraintkind":
		return fmt.Sprintf("unknown constraint kind %q", fe.Value())
	case "templatekey":
		return fmt.Sprintf("unknown template %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}

// ToAppError converts validation result to AppError. Unknown constraint kinds are
// contract violations; every other failure is a validation error.
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result == nil || result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	firstError := result.Errors[0]
	var appErr *errors.AppError
	if firstError.Code == "constraintkind" {
		appErr = errors.ContractViolation(firstError.Message)
	} else {
		appErr = errors.ValidationError(firstError.Message)
	}

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))
	appErr.WithContext("validation_errors", result.Errors)

	return appErr
}
