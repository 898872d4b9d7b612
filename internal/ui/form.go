package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/prompt-builder/internal/models"
)

// Form field indices
const (
	userContextField = iota
	backgroundField
	instructionField
	fieldCount
)

// BuilderForm holds the three free-text fields of the draft
type BuilderForm struct {
	userContext textinput.Model
	background  textarea.Model
	instruction textarea.Model
	focused     int
	width       int
}

// NewBuilderForm creates the form with the user context field focused
func NewBuilderForm() *BuilderForm {
	uc := textinput.New()
	uc.Placeholder = "Who are you? e.g., a product manager preparing a launch brief"
	uc.CharLimit = 500
	uc.Prompt = ""
	uc.Focus()

	bg := textarea.New()
	bg.Placeholder = "Background the model should know about"
	bg.ShowLineNumbers = false
	bg.SetHeight(3)

	in := textarea.New()
	in.Placeholder = "What should the model do? Pick a template with Ctrl+t for a head start."
	in.ShowLineNumbers = false
	in.SetHeight(6)

	f := &BuilderForm{
		userContext: uc,
		background:  bg,
		instruction: in,
		focused:     userContextField,
	}
	f.Resize(80)
	return f
}

// Update handles form input
func (f *BuilderForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			f.nextField()
			return nil
		case "shift+tab":
			f.prevField()
			return nil
		case "enter":
			// Enter is a newline in the text areas
			if f.focused == userContextField {
				f.nextField()
				return nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focused {
	case userContextField:
		f.userContext, cmd = f.userContext.Update(msg)
	case backgroundField:
		f.background, cmd = f.background.Update(msg)
	case instructionField:
		f.instruction, cmd = f.instruction.Update(msg)
	}
	return cmd
}

// Resize updates form dimensions based on window size
func (f *BuilderForm) Resize(width int) {
	w := width - 8 // Account for padding and the field border
	if w < 20 {
		w = 20
	}
	f.width = w
	f.userContext.Width = w
	f.background.SetWidth(w)
	f.instruction.SetWidth(w)
}

func (f *BuilderForm) nextField() {
	f.blur()
	f.focused = (f.focused + 1) % fieldCount
	f.focus()
}

func (f *BuilderForm) prevField() {
	f.blur()
	f.focused = (f.focused + fieldCount - 1) % fieldCount
	f.focus()
}

func (f *BuilderForm) blur() {
	switch f.focused {
	case userContextField:
		f.userContext.Blur()
	case backgroundField:
		f.background.Blur()
	case instructionField:
		f.instruction.Blur()
	}
}

func (f *BuilderForm) focus() {
	switch f.focused {
	case userContextField:
		f.userContext.Focus()
	case backgroundField:
		f.background.Focus()
	case instructionField:
		f.instruction.Focus()
	}
}

// Focus moves focus to the given field
func (f *BuilderForm) Focus(field int) {
	if field < 0 || field >= fieldCount {
		return
	}
	f.blur()
	f.focused = field
	f.focus()
}

// Focused returns the index of the focused field
func (f *BuilderForm) Focused() int {
	return f.focused
}

func (f *BuilderForm) UserContext() string       { return f.userContext.Value() }
func (f *BuilderForm) BackgroundContext() string { return f.background.Value() }
func (f *BuilderForm) MainInstruction() string   { return f.instruction.Value() }

// Load replaces every field with the draft's values
func (f *BuilderForm) Load(d models.PromptDraft) {
	f.userContext.SetValue(d.UserContext)
	f.background.SetValue(d.BackgroundContext)
	f.instruction.SetValue(d.MainInstruction)
}

// SetInstruction replaces the main instruction, e.g. after a template load
func (f *BuilderForm) SetInstruction(v string) {
	f.instruction.SetValue(v)
}

// View renders the form
func (f *BuilderForm) View() string {
	field := func(idx int, label, hint, body string) string {
		style := StyleField
		if f.focused == idx {
			style = StyleFieldActive
		}
		parts := []string{StyleFormLabel.Render(label)}
		if hint != "" {
			parts = append(parts, StyleTextDim.Render(hint))
		}
		parts = append(parts, body)
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field(userContextField, "User Context", "", f.userContext.View()),
		field(backgroundField, "Background Context", "", f.background.View()),
		field(instructionField, "Main Instruction", "required", f.instruction.View()),
	)
}
