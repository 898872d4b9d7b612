package commands

import (
	"context"
	"strings"

	"github.com/dpshade/prompt-builder/internal/analyzer"
	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/renderer"
	"github.com/dpshade/prompt-builder/internal/service"
)

// ComposeParams are the parameters of the compose command
type ComposeParams struct {
	Draft models.PromptDraft `json:"draft"`
	// Template fills the main instruction when the draft has none
	Template string `json:"template" validate:"omitempty,templatekey"`
	Format   string `json:"format" validate:"omitempty,oneof=text json markdown"`
}

// ComposeResult is the data of a successful compose
type ComposeResult struct {
	Prompt   string                 `json:"prompt"`
	Analysis *models.AnalysisResult `json:"analysis"`
	Rendered string                 `json:"rendered,omitempty"`
}

// ComposeCommand builds the final prompt from a draft and analyzes it
type ComposeCommand struct {
	deps
	params ComposeParams
}

func (c *ComposeCommand) SetParameters(params map[string]interface{}) error {
	return decodeParams(params, &c.params)
}

func (c *ComposeCommand) Validate() error {
	return c.validator.Check(&c.params)
}

func (c *ComposeCommand) GetName() string {
	return CommandCompose
}

func (c *ComposeCommand) GetDescription() string {
	return "Compose the final prompt from a draft and report its analysis"
}

func (c *ComposeCommand) Execute(ctx context.Context) (*CommandResult, error) {
	svc := service.NewService(service.Options{Logger: c.log})
	if err := svc.SetDraft(c.params.Draft); err != nil {
		return nil, err
	}
	if c.params.Template != "" && strings.TrimSpace(c.params.Draft.MainInstruction) == "" {
		if err := svc.LoadTemplate(models.TemplateKey(c.params.Template)); err != nil {
			return nil, err
		}
	}

	result := ComposeResult{
		Prompt:   svc.FinalPrompt(),
		Analysis: svc.Analysis(),
	}

	format, err := renderer.ParseFormat(c.params.Format)
	if err != nil {
		return nil, err
	}
	if format != renderer.FormatText {
		rendered, err := renderer.NewRenderer(svc.Draft(), result.Prompt, result.Analysis).Render(format)
		if err != nil {
			return nil, err
		}
		result.Rendered = rendered
	}

	return &CommandResult{Success: true, Data: result}, nil
}

// AnalyzeParams are the parameters of the analyze command
type AnalyzeParams struct {
	Prompt string `json:"prompt"`
}

// AnalyzeResult is the data of a successful analyze. Analysis is nil for a
// blank prompt.
type AnalyzeResult struct {
	Analysis *models.AnalysisResult `json:"analysis"`
}

// AnalyzeCommand lints an arbitrary prompt
type AnalyzeCommand struct {
	deps
	params AnalyzeParams
}

func (c *AnalyzeCommand) SetParameters(params map[string]interface{}) error {
	return decodeParams(params, &c.params)
}

func (c *AnalyzeCommand) Validate() error {
	return c.validator.Check(&c.params)
}

func (c *AnalyzeCommand) GetName() string {
	return CommandAnalyze
}

func (c *AnalyzeCommand) GetDescription() string {
	return "Report strengths and issues of a prompt"
}

func (c *AnalyzeCommand) Execute(ctx context.Context) (*CommandResult, error) {
	return &CommandResult{
		Success: true,
		Data:    AnalyzeResult{Analysis: analyzer.Analyze(c.params.Prompt)},
	}, nil
}

// GenerateParams are the parameters of the generate command
type GenerateParams struct {
	Description       string `json:"description" validate:"notblank"`
	UserContext       string `json:"userContext"`
	AdditionalContext string `json:"additionalContext"`
	// Fallback applies the demo prompt after a recoverable failure
	Fallback bool `json:"fallback"`
}

// GenerateResult is the data of a successful generate
type GenerateResult struct {
	Prompt   string `json:"prompt"`
	Fallback bool   `json:"fallback,omitempty"`
}

// GenerateCommand asks the configured generator for a prompt
type GenerateCommand struct {
	deps
	params GenerateParams
}

func (c *GenerateCommand) SetParameters(params map[string]interface{}) error {
	return decodeParams(params, &c.params)
}

func (c *GenerateCommand) Validate() error {
	return c.validator.Check(&c.params)
}

func (c *GenerateCommand) GetName() string {
	return CommandGenerate
}

func (c *GenerateCommand) GetDescription() string {
	return "Generate one ready-to-use prompt from a short description"
}

func (c *GenerateCommand) Execute(ctx context.Context) (*CommandResult, error) {
	delay := c.fallbackDelay
	if delay == 0 {
		delay = -1
	}
	svc := service.NewService(service.Options{
		Generator:     c.generator,
		FallbackDelay: delay,
		Logger:        c.log,
	})
	svc.SetUserContext(c.params.UserContext)
	svc.SetBackgroundContext(c.params.AdditionalContext)

	if !c.params.Fallback {
		prompt, err := svc.Generate(ctx, c.params.Description)
		if err != nil {
			return nil, err
		}
		return &CommandResult{Success: true, Data: GenerateResult{Prompt: prompt}}, nil
	}

	outcome, err := svc.GenerateWithFallback(ctx, c.params.Description)
	if err != nil {
		return nil, err
	}
	result := &CommandResult{
		Success: true,
		Data:    GenerateResult{Prompt: outcome.Prompt, Fallback: outcome.Fallback},
	}
	if outcome.Fallback {
		result.Message = "Generation failed, using the demo prompt"
	}
	return result, nil
}
