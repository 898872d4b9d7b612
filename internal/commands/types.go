// Package commands implements the unified command execution system for the prompt builder.
//
// SYSTEM ARCHITECTURE ROLE:
// This module serves as the coordination layer between user interfaces (CLI, HTTP) and the
// builder core (composer, analyzer, generator). It implements the Command Pattern so that
// every interface decodes, validates and reports an operation the same way.
//
// KEY RESPONSIBILITIES:
// - Define the command interface and the registry commands are created from
// - Decode loosely typed parameter maps into typed parameter structs (mapstructure)
// - Validate parameters with the shared validator before anything executes
// - Standardize results and errors across interfaces
//
// INTEGRATION POINTS:
// - internal/cli/*.go: cobra commands build parameter maps and render CommandResult.Data
// - internal/api/handlers.go: HTTP handlers execute commands and map failures to status codes
// - internal/service/service.go: compose and generate run against a per-call Service
// - internal/validation/validator.go: CommandExecutor.validator checks decoded parameters
// - internal/errors/errors.go: command failures are carried as AppErrors inside ErrorInfo
// - internal/commands/builder_commands.go: compose, analyze and generate
// - internal/commands/utility_commands.go: templates, constraint kinds and health
//
// COMMAND FLOW:
// 1. Interface receives user input (CLI flags, HTTP body)
// 2. Interface converts input to a parameter map
// 3. CommandExecutor looks up the factory and creates the command
// 4. SetParameters decodes the map into the command's parameter struct
// 5. Validate runs the struct tags through the validator
// 6. Execute does the work and returns a CommandResult
// 7. Interface renders CommandResult.Data or CommandResult.Error
package commands

import (
	"context"
	"sort"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/service"
	"github.com/dpshade/prompt-builder/internal/validation"
)

// Command names
const (
	CommandCompose             = "compose"
	CommandAnalyze             = "analyze"
	CommandGenerate            = "generate"
	CommandListTemplates       = "list-templates"
	CommandListConstraintKinds = "list-constraint-kinds"
	CommandHealth              = "health"
)

// CommandResult represents the result of executing a command
type CommandResult struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Success bool        `json:"success"`
	Error   *ErrorInfo  `json:"error,omitempty"`

	err *errors.AppError
}

// Err returns the failure as an AppError, or nil for a successful result
func (r *CommandResult) Err() error {
	if r == nil || r.Success {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	if r.Error != nil {
		code, ok := errors.KnownCode(r.Error.Code)
		if !ok {
			code = errors.ErrCodeInternalError
		}
		return errors.NewAppError(code, r.Error.Message).WithDetails(r.Error.Details)
	}
	return errors.InternalError("command failed")
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Category string `json:"category,omitempty"`
	Severity string `json:"severity,omitempty"`
}

func failure(err error) *CommandResult {
	appErr := errors.GetAppError(err)
	return &CommandResult{
		Success: false,
		Error: &ErrorInfo{
			Code:     string(appErr.Code),
			Message:  appErr.Message,
			Details:  appErr.Details,
			Category: string(appErr.Category),
			Severity: string(appErr.Severity),
		},
		err: appErr,
	}
}

// Command represents a unified command interface
type Command interface {
	Execute(ctx context.Context) (*CommandResult, error)
	Validate() error
	GetName() string
	GetDescription() string
}

// ParameterizedCommand interface for commands that accept parameters
type ParameterizedCommand interface {
	SetParameters(params map[string]interface{}) error
}

// CommandRegistry manages available commands
type CommandRegistry struct {
	commands map[string]func() Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]func() Command),
	}
}

// Register adds a command factory to the registry
func (r *CommandRegistry) Register(name string, factory func() Command) {
	r.commands[name] = factory
}

// Get retrieves a command factory by name
func (r *CommandRegistry) Get(name string) (func() Command, bool) {
	factory, exists := r.commands[name]
	return factory, exists
}

// List returns all available command names, sorted
func (r *CommandRegistry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures a CommandExecutor
type Options struct {
	// Generator serves the generate command. Nil makes every generation fail
	// with GENERATION_FAILED.
	Generator     service.Generator
	FallbackDelay time.Duration
	Logger        *logger.Logger
}

// deps is what every command gets from the executor
type deps struct {
	generator     service.Generator
	fallbackDelay time.Duration
	validator     *validation.Validator
	log           *logger.Logger
}

// CommandExecutor provides a unified way to execute commands
type CommandExecutor struct {
	deps     deps
	registry *CommandRegistry
}

// NewCommandExecutor creates a new command executor with every command registered
func NewCommandExecutor(opts Options) *CommandExecutor {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	executor := &CommandExecutor{
		deps: deps{
			generator:     opts.Generator,
			fallbackDelay: opts.FallbackDelay,
			validator:     validation.NewValidator(),
			log:           opts.Logger,
		},
		registry: NewCommandRegistry(),
	}

	executor.registerCommands()

	return executor
}

// Commands lists the registered command names
func (e *CommandExecutor) Commands() []string {
	return e.registry.List()
}

// Execute runs a command by name with the given parameters. Failures are
// reported in the result; the returned error is reserved for future use and
// is always nil.
func (e *CommandExecutor) Execute(ctx context.Context, commandName string, params map[string]interface{}) (*CommandResult, error) {
	factory, exists := e.registry.Get(commandName)
	if !exists {
		return failure(errors.CommandNotFoundError(commandName)), nil
	}

	cmd := factory()

	if parameterized, ok := cmd.(ParameterizedCommand); ok {
		if params == nil {
			params = make(map[string]interface{})
		}
		if err := parameterized.SetParameters(params); err != nil {
			return failure(err), nil
		}
	}

	if err := cmd.Validate(); err != nil {
		return failure(err), nil
	}

	start := time.Now()
	result, err := cmd.Execute(ctx)
	if err != nil {
		e.deps.log.Debug("command failed", "command", commandName, "error", err.Error())
		return failure(err), nil
	}
	e.deps.log.Debug("command executed", "command", commandName, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// registerCommands registers all available commands
func (e *CommandExecutor) registerCommands() {
	d := e.deps

	e.registry.Register(CommandCompose, func() Command { return &ComposeCommand{deps: d} })
	e.registry.Register(CommandAnalyze, func() Command { return &AnalyzeCommand{deps: d} })
	e.registry.Register(CommandGenerate, func() Command { return &GenerateCommand{deps: d} })
	e.registry.Register(CommandListTemplates, func() Command { return &ListTemplatesCommand{deps: d} })
	e.registry.Register(CommandListConstraintKinds, func() Command { return &ListConstraintKindsCommand{} })
	e.registry.Register(CommandHealth, func() Command { return &HealthCheckCommand{deps: d} })
}

// decodeParams decodes a parameter map into out using the json field names.
// Values that already have the target type are assigned as they are.
func decodeParams(params map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.InternalError("building parameter decoder").WithDetails(err.Error())
	}
	if err := decoder.Decode(params); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "Invalid parameters").WithDetails(err.Error())
	}
	return nil
}
