package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/prompt-builder/internal/composer"
	"github.com/dpshade/prompt-builder/internal/models"
)

// Format selects an output representation
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: text, json, markdown)", s)
	}
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Renderer renders a draft's composed prompt and analysis
type Renderer struct {
	draft    models.PromptDraft
	prompt   string
	analysis *models.AnalysisResult
}

// NewRenderer creates a renderer for a composed prompt. The draft is used for
// the sectioned markdown view.
func NewRenderer(draft models.PromptDraft, prompt string, analysis *models.AnalysisResult) *Renderer {
	return &Renderer{
		draft:    draft,
		prompt:   prompt,
		analysis: analysis,
	}
}

// Render dispatches on format
func (r *Renderer) Render(format Format) (string, error) {
	switch format {
	case FormatJSON:
		return r.RenderJSON()
	case FormatMarkdown:
		return r.RenderMarkdown(), nil
	default:
		return r.RenderText(), nil
	}
}

// RenderText returns the composed prompt unmodified
func (r *Renderer) RenderText() string {
	return r.prompt
}

// RenderJSON renders the prompt as a JSON message array for LLM APIs
func (r *Renderer) RenderJSON() (string, error) {
	messages := []Message{
		{
			Role:    "user",
			Content: r.prompt,
		},
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// RenderMarkdown renders each composed section under a heading, followed by the analysis
func (r *Renderer) RenderMarkdown() string {
	var b strings.Builder

	sections := composer.Sections(r.draft)
	if len(sections) == 0 {
		b.WriteString("_Your prompt will appear here as you fill in the form._\n")
	}
	for _, s := range sections {
		fmt.Fprintf(&b, "### %s\n\n", sectionTitle(s.Kind))
		switch s.Kind {
		case composer.SectionConstraints, composer.SectionGuidelines:
			for _, line := range s.Lines[1:] {
				b.WriteString(line)
				b.WriteString("\n")
			}
		default:
			b.WriteString(s.Text())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.analysis != nil {
		b.WriteString("---\n\n### Analysis\n\n")
		for _, s := range r.analysis.Strengths {
			fmt.Fprintf(&b, "- ✓ %s\n", s)
		}
		for _, issue := range r.analysis.Issues {
			fmt.Fprintf(&b, "- ⚠ %s\n", issue)
		}
	}

	return b.String()
}

func sectionTitle(kind composer.SectionKind) string {
	switch kind {
	case composer.SectionUserContext:
		return "User context"
	case composer.SectionContext:
		return "Context"
	case composer.SectionInstruction:
		return "Instruction"
	case composer.SectionConstraints:
		return "Constraints"
	case composer.SectionGuidelines:
		return "Additional Guidelines"
	default:
		return string(kind)
	}
}

// NewTerminalRenderer creates a glamour renderer styled for the current terminal.
// GLAMOUR_STYLE overrides detection.
func NewTerminalRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	var styleOption glamour.TermRendererOption
	switch termenv.ColorProfile() {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(wordWrap),
	)
}

// RenderTerminal renders markdown for display, falling back to the raw text
// when glamour fails
func RenderTerminal(markdown string, wordWrap int) string {
	tr, err := NewTerminalRenderer(wordWrap)
	if err != nil {
		return markdown
	}
	out, err := tr.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
