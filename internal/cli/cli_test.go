package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/relay"
	"github.com/dpshade/prompt-builder/internal/ui"
)

type recordingCopier struct {
	copied []string
}

func (r *recordingCopier) Copy(text string) error {
	r.copied = append(r.copied, text)
	return nil
}

type harness struct {
	app    *App
	out    bytes.Buffer
	err    bytes.Buffer
	copier *recordingCopier
	home   string
	tui    []ui.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{home: t.TempDir(), copier: &recordingCopier{}}
	t.Setenv("HOME", h.home)
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"PROMPT_BUILDER_LLM_API_KEY", "PROMPT_BUILDER_LLM_PROVIDER", "PROMPT_BUILDER_LOG_FILE",
	} {
		t.Setenv(k, "")
	}

	h.app = &App{
		Version: "1.2.3",
		In:      strings.NewReader(""),
		Out:     &h.out,
		Err:     &h.err,
		copier:  h.copier,
		runTUI: func(_ context.Context, opts ui.Options) error {
			h.tui = append(h.tui, opts)
			return nil
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCommand(h.app)
	root.SetArgs(append([]string{"--env-file", filepath.Join(h.home, "missing.env")}, args...))
	return root.ExecuteContext(context.Background())
}

func TestComposeCommand(t *testing.T) {
	h := newHarness(t)

	err := h.run("compose", "Explain black holes",
		"-u", "curious teenager",
		"--constraint", "length=300 words",
		"-g", "Use one analogy",
	)
	require.NoError(t, err)

	want := "User context: curious teenager\n\n" +
		"Explain black holes\n\n" +
		"Constraints:\n- Word/Character Limit: 300 words\n" +
		"\n\nAdditional Guidelines:\n- Use one analogy\n"
	assert.Equal(t, want, h.out.String())
}

func TestComposeAnalyzeGoesToStderr(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("compose", "Explain black holes", "--analyze"))
	assert.Equal(t, "Explain black holes\n", h.out.String())
	assert.Contains(t, h.err.String(), "Analysis:")
}

func TestComposeTemplateFillsEmptyInstruction(t *testing.T) {
	h := newHarness(t)
	tmpl, ok := models.LookupTemplate(models.TemplateKey("step-by-step"))
	require.True(t, ok)

	require.NoError(t, h.run("compose", "--template", "step-by-step"))
	assert.Equal(t, tmpl.Example+"\n", h.out.String())
}

func TestComposeRejectsMalformedConstraint(t *testing.T) {
	h := newHarness(t)

	err := h.run("compose", "x", "--constraint", "no-equals-sign")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestComposeRejectsUnknownConstraintKind(t *testing.T) {
	h := newHarness(t)

	err := h.run("compose", "x", "--constraint", "mood=happy")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeContractViolation))
}

func TestComposeJSONFormat(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("compose", "Summarize this", "--format", "json"))

	var messages []map[string]string
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "Summarize this", messages[0]["content"])
}

func TestComposeSideEffects(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	output := filepath.Join(dir, "prompt.txt")
	saveDir := filepath.Join(dir, "saved")

	err := h.run("compose", "Write a limerick",
		"--copy",
		"--output", output,
		"--save-dir", saveDir,
		"--name", "Limerick",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Write a limerick"}, h.copier.copied)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Write a limerick", string(content))

	entries, err := os.ReadDir(saveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	saved, err := os.ReadFile(filepath.Join(saveDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "Limerick")
	assert.Contains(t, string(saved), "Write a limerick")
}

func TestAnalyzeCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("analyze", "Explain black holes"))
	assert.Contains(t, h.out.String(), "⚠ Prompt may be too short for complex responses")
}

func TestAnalyzeBlankPrompt(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("analyze"))
	assert.Equal(t, "Nothing to analyze: the prompt is blank.\n", h.out.String())
}

func TestAnalyzeFromFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("Explain black holes"), 0o644))

	require.NoError(t, h.run("analyze", "--file", path))
	assert.Contains(t, h.out.String(), "Prompt may be too short")
}

func TestTemplatesCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("templates"))
	for _, tmpl := range models.Templates() {
		assert.Contains(t, h.out.String(), string(tmpl.Key)+" - "+tmpl.DisplayName)
	}
}

func TestTemplatesSearchJSON(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("templates", "--search", "step", "--format", "json"))
	var templates []models.Template
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &templates))
	require.NotEmpty(t, templates)
	assert.Equal(t, models.TemplateKey("step-by-step"), templates[0].Key)
}

func TestKindsCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("kinds"))
	out := h.out.String()
	assert.Contains(t, out, "KIND")
	for _, kind := range models.ConstraintKinds() {
		assert.Contains(t, out, kind.Label())
	}
}

func TestGenerateWithoutCredentialPrintsFallbackTemplate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("generate", "explain", "recursion", "-u", "a student"))
	want := relay.FallbackPrompt(models.GenerationRequest{
		Description: "explain recursion",
		UserContext: "a student",
	})
	assert.Equal(t, want+"\n", h.out.String())
}

func TestHealthCommandInFallbackMode(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("health"))
	assert.Equal(t, "ok: generator fallback template (no provider credential)\n", h.out.String())
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("version"))
	assert.Equal(t, "prompt-builder 1.2.3\n", h.out.String())
}

func TestRootStartsInteractiveBuilder(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("--local"))
	require.Len(t, h.tui, 1)
	assert.NotNil(t, h.tui[0].Generator)
	assert.Equal(t, h.copier, h.tui[0].Copier)
	assert.Equal(t, h.app.cfg.Client.FallbackDelay, h.tui[0].FallbackDelay)
}

func TestInvalidConfigFileFails(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "prompt-builder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not, a, map"), 0o644))

	err := h.run("--config", path, "version")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}
