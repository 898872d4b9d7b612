package commands

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/prompt-builder/internal/demo"
	"github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

type stubGenerator struct {
	prompt     string
	err        error
	configured bool
	calls      int
	last       models.GenerationRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	g.calls++
	g.last = req
	return g.prompt, g.err
}

func (g *stubGenerator) Configured() bool {
	return g.configured
}

func execute(t *testing.T, e *CommandExecutor, name string, params map[string]interface{}) *CommandResult {
	t.Helper()
	result, err := e.Execute(context.Background(), name, params)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func assertCode(t *testing.T, result *CommandResult, code errors.ErrorCode) {
	t.Helper()
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, string(code), result.Error.Code)
	assert.True(t, errors.IsCode(result.Err(), code))
}

func TestRegisteredCommands(t *testing.T) {
	e := NewCommandExecutor(Options{})
	assert.Equal(t, []string{
		CommandAnalyze,
		CommandCompose,
		CommandGenerate,
		CommandHealth,
		CommandListConstraintKinds,
		CommandListTemplates,
	}, e.Commands())
}

func TestUnknownCommand(t *testing.T) {
	e := NewCommandExecutor(Options{})
	result := execute(t, e, "publish", nil)
	assertCode(t, result, errors.ErrCodeCommandNotFound)
}

func TestComposeFromParameterMap(t *testing.T) {
	e := NewCommandExecutor(Options{})
	result := execute(t, e, CommandCompose, map[string]interface{}{
		"draft": map[string]interface{}{
			"mainInstruction": "Explain how vaccines work",
			"constraints": []interface{}{
				map[string]interface{}{"kind": "audience", "value": "children"},
			},
			"guidelines": []interface{}{
				map[string]interface{}{"text": "Use analogies"},
			},
		},
	})

	require.True(t, result.Success)
	data := result.Data.(ComposeResult)
	assert.Equal(t, "Explain how vaccines work\n\n"+
		"Constraints:\n- Target Audience: children\n"+
		"\n\nAdditional Guidelines:\n- Use analogies\n", data.Prompt)
	require.NotNil(t, data.Analysis)
	assert.Empty(t, data.Rendered)
	assert.Nil(t, result.Err())
}

func TestComposeTemplateFillsEmptyInstruction(t *testing.T) {
	e := NewCommandExecutor(Options{})
	tmpl, ok := models.LookupTemplate(models.TemplateStepByStep)
	require.True(t, ok)

	result := execute(t, e, CommandCompose, map[string]interface{}{
		"draft":    models.PromptDraft{UserContext: "shop owner"},
		"template": string(models.TemplateStepByStep),
	})
	require.True(t, result.Success)
	assert.Equal(t, "User context: shop owner\n\n"+tmpl.Example, result.Data.(ComposeResult).Prompt)

	result = execute(t, e, CommandCompose, map[string]interface{}{
		"draft":    models.PromptDraft{MainInstruction: "Keep mine"},
		"template": string(models.TemplateStepByStep),
	})
	require.True(t, result.Success)
	assert.Equal(t, "Keep mine", result.Data.(ComposeResult).Prompt)
}

func TestComposeRejectsBadInput(t *testing.T) {
	e := NewCommandExecutor(Options{})

	result := execute(t, e, CommandCompose, map[string]interface{}{
		"draft": models.PromptDraft{
			MainInstruction: "x",
			Constraints:     []models.Constraint{{ID: "1", Kind: "tone", Value: "warm"}},
		},
	})
	assertCode(t, result, errors.ErrCodeContractViolation)

	result = execute(t, e, CommandCompose, map[string]interface{}{"template": "poem"})
	assertCode(t, result, errors.ErrCodeValidation)

	result = execute(t, e, CommandCompose, map[string]interface{}{"colour": "blue"})
	assertCode(t, result, errors.ErrCodeInvalidInput)
}

func TestComposeRendersRequestedFormat(t *testing.T) {
	e := NewCommandExecutor(Options{})
	result := execute(t, e, CommandCompose, map[string]interface{}{
		"draft":  models.PromptDraft{MainInstruction: "Describe the water cycle"},
		"format": "json",
	})
	require.True(t, result.Success)
	data := result.Data.(ComposeResult)
	assert.Contains(t, data.Rendered, `"role": "user"`)
	assert.Contains(t, data.Rendered, "Describe the water cycle")
}

func TestAnalyze(t *testing.T) {
	e := NewCommandExecutor(Options{})

	result := execute(t, e, CommandAnalyze, map[string]interface{}{"prompt": "   "})
	require.True(t, result.Success)
	assert.Nil(t, result.Data.(AnalyzeResult).Analysis)

	result = execute(t, e, CommandAnalyze, map[string]interface{}{"prompt": "Explain something"})
	require.True(t, result.Success)
	analysis := result.Data.(AnalyzeResult).Analysis
	require.NotNil(t, analysis)
	assert.NotEmpty(t, analysis.Strengths)
}

func TestGenerateSuccess(t *testing.T) {
	gen := &stubGenerator{prompt: "Act as a tutor..."}
	e := NewCommandExecutor(Options{Generator: gen})

	result := execute(t, e, CommandGenerate, map[string]interface{}{
		"description":       "  teach fractions ",
		"userContext":       "parent",
		"additionalContext": "kid is 9",
	})
	require.True(t, result.Success)
	assert.Equal(t, GenerateResult{Prompt: "Act as a tutor..."}, result.Data)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, models.GenerationRequest{
		Description:       "teach fractions",
		UserContext:       "parent",
		AdditionalContext: "kid is 9",
	}, gen.last)
}

func TestGenerateBlankDescription(t *testing.T) {
	gen := &stubGenerator{prompt: "unused"}
	e := NewCommandExecutor(Options{Generator: gen})

	result := execute(t, e, CommandGenerate, map[string]interface{}{"description": "  "})
	assertCode(t, result, errors.ErrCodeValidation)
	assert.Equal(t, 0, gen.calls)
}

func TestGenerateFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.GenerationFailed(stderrors.New("upstream 500"))}
	e := NewCommandExecutor(Options{Generator: gen})

	result := execute(t, e, CommandGenerate, map[string]interface{}{"description": "plan a trip"})
	assertCode(t, result, errors.ErrCodeGenerationFailed)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.GenerationFailed(stderrors.New("upstream 500"))}
	e := NewCommandExecutor(Options{Generator: gen})

	result := execute(t, e, CommandGenerate, map[string]interface{}{
		"description": "compare two laptops",
		"fallback":    true,
	})
	require.True(t, result.Success)
	assert.Equal(t, GenerateResult{Prompt: demo.Generate("compare two laptops"), Fallback: true}, result.Data)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateWithoutGenerator(t *testing.T) {
	e := NewCommandExecutor(Options{})
	result := execute(t, e, CommandGenerate, map[string]interface{}{"description": "plan a trip"})
	assertCode(t, result, errors.ErrCodeGenerationFailed)
}

func TestListTemplates(t *testing.T) {
	e := NewCommandExecutor(Options{})

	result := execute(t, e, CommandListTemplates, nil)
	require.True(t, result.Success)
	assert.Len(t, result.Data.([]models.Template), 5)

	result = execute(t, e, CommandListTemplates, map[string]interface{}{"search": "step"})
	require.True(t, result.Success)
	templates := result.Data.([]models.Template)
	require.NotEmpty(t, templates)
	assert.Equal(t, models.TemplateStepByStep, templates[0].Key)

	result = execute(t, e, CommandListTemplates, map[string]interface{}{"search": "zzzz"})
	require.True(t, result.Success)
	assert.Empty(t, result.Data.([]models.Template))
}

func TestListConstraintKinds(t *testing.T) {
	e := NewCommandExecutor(Options{})
	result := execute(t, e, CommandListConstraintKinds, nil)
	require.True(t, result.Success)

	infos := result.Data.([]ConstraintKindInfo)
	require.Len(t, infos, len(models.ConstraintKinds()))
	for _, info := range infos {
		assert.True(t, info.Kind.Valid())
		assert.NotEmpty(t, info.Label)
	}
}

func TestHealth(t *testing.T) {
	result := execute(t, NewCommandExecutor(Options{}), CommandHealth, nil)
	require.True(t, result.Success)
	assert.Equal(t, HealthResult{OK: true, Upstream: false}, result.Data)

	result = execute(t, NewCommandExecutor(Options{Generator: &stubGenerator{configured: true}}), CommandHealth, nil)
	assert.Equal(t, HealthResult{OK: true, Upstream: true}, result.Data)
}
