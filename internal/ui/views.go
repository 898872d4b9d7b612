package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/prompt-builder/internal/models"
)

// View renders the current view with the status bar underneath
func (m Model) View() string {
	var mainView string

	switch m.viewMode {
	case ViewBuilder:
		mainView = m.renderBuilderView()
	case ViewGenerator:
		mainView = m.renderGeneratorView()
	case ViewKindPicker:
		mainView = m.renderKindPickerView()
	case ViewItemEditor:
		mainView = m.renderItemEditorView()
	case ViewItems:
		mainView = m.renderItemsView()
	case ViewTemplates:
		mainView = m.renderListView(m.templateList.View(), []string{"enter load • / filter • esc back"})
	case ViewSaved:
		mainView = m.renderListView(m.savedList.View(), []string{"enter view • c copy • d delete", "x export all • / filter • esc back"})
	case ViewPreview:
		mainView = m.renderPreviewView()
	default:
		mainView = "Unknown view mode"
	}

	if m.statusMsg != "" {
		mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, CreateStatus(m.statusMsg, m.statusType))
	}
	return AddMainPadding(mainView)
}

func (m Model) renderModeTabs() string {
	builder, generator := StyleUnselected, StyleUnselected
	if m.viewMode == ViewGenerator {
		generator = StyleFocused
	} else {
		builder = StyleFocused
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		StyleTitle.Render("Prompt Builder"),
		" ",
		builder.Render("Manual"),
		generator.Render("AI Generator"),
	)
}

func (m Model) renderBuilderView() string {
	essential := []string{"tab next field • ctrl+k constraint • ctrl+l guideline • ctrl+p preview"}
	additional := []string{
		"ctrl+t templates • ctrl+o edit constraints & guidelines • ctrl+g AI generator",
		"ctrl+s save • ctrl+f saved • ctrl+y copy • ctrl+e download prompt.txt",
		"ctrl+r clear all • ctrl+c quit",
	}

	elements := []string{
		m.renderModeTabs(),
		"",
		m.form.View(),
		"",
		m.renderItemsSummary(),
		m.renderAnalysis(),
		"",
		CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

// renderItemsSummary lists the draft's constraints and guidelines
func (m Model) renderItemsSummary() string {
	d := m.svc.Draft()
	var lines []string

	lines = append(lines, StyleFormLabel.Render(fmt.Sprintf("Constraints (%d)", len(d.Constraints))))
	for _, c := range d.Constraints {
		value := c.Value
		if strings.TrimSpace(value) == "" {
			value = StyleTextDim.Render(c.Kind.Placeholder())
		}
		lines = append(lines, fmt.Sprintf("  • %s: %s", c.Kind.Label(), value))
	}

	lines = append(lines, StyleFormLabel.Render(fmt.Sprintf("Guidelines (%d)", len(d.Guidelines))))
	for _, g := range d.Guidelines {
		lines = append(lines, "  • "+g.Text)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderAnalysis() string {
	a := m.svc.Analysis()
	if a == nil {
		return StyleTextDim.Render("Start typing to see feedback on your prompt.")
	}

	lines := []string{StyleSubtitle.Render(fmt.Sprintf("Analysis • %d words", len(strings.Fields(m.svc.FinalPrompt()))))}
	for _, s := range a.Strengths {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorSuccess).Render("  ✓ "+s))
	}
	for _, issue := range a.Issues {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorWarning).Render("  ⚠ "+issue))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGeneratorView() string {
	elements := []string{
		m.renderModeTabs(),
		"",
		StyleFormLabel.Render("Describe the prompt you need"),
		StyleField.Render(m.description.View()),
		CreateMetadata("User and background context from the builder are sent along."),
		"",
	}

	switch {
	case m.generating:
		elements = append(elements, StyleLoading.Render("⏳ Generating..."))
	case m.genErr != nil:
		icon, color := m.errHandler.GetErrorStyle(m.genErr)
		text := m.errHandler.FormatError(m.genErr)
		if m.fallbackPending {
			text += fmt.Sprintf("\nFalling back to demo mode in %s...", m.svc.FallbackDelay())
		}
		elements = append(elements, CreateBanner(icon, text, lipgloss.Color(color)))
	}

	elements = append(elements, "",
		CreateContextualHelp([]string{"enter generate • ctrl+g builder • esc back"}, nil, false, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

func (m Model) renderKindPickerView() string {
	lines := []string{CreateSubPageHeader("Add Constraint"), ""}
	for i, kind := range models.ConstraintKinds() {
		lines = append(lines, CreateOption(kind.Label(), kind.Placeholder(), i == m.kindCursor)...)
	}
	lines = append(lines, "", CreateContextualHelp([]string{"↑/↓ choose • enter select • esc cancel"}, nil, false, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderItemEditorView() string {
	title := "Guideline"
	if m.editing.constraint {
		title = "Constraint: " + m.editing.kind.Label()
	}
	if m.editing.id == "" {
		title = "New " + title
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		CreateSubPageHeader(title),
		"",
		StyleFieldActive.Render(m.editor.View()),
		"",
		CreateContextualHelp([]string{"enter done • esc cancel"}, nil, false, m.width),
	)
}

func (m Model) renderItemsView() string {
	lines := []string{CreateSubPageHeader("Constraints & Guidelines"), ""}

	items := m.draftItems()
	if len(items) == 0 {
		lines = append(lines, StyleTextDim.Render("Nothing here yet. Add a constraint with ctrl+k or a guideline with ctrl+l."))
	}
	for i, it := range items {
		label := "Guideline"
		if it.constraint {
			label = it.kind.Label()
		}
		lines = append(lines, CreateOption(fmt.Sprintf("%s: %s", label, it.text), "", i == m.itemCursor)...)
	}

	lines = append(lines, "", CreateContextualHelp(
		[]string{"enter edit • d delete • esc back"},
		[]string{"ctrl+k add constraint • ctrl+l add guideline"},
		m.showExpandedHelp, m.width))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderListView(list string, help []string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		list,
		CreateContextualHelp(help[:1], help[1:], m.showExpandedHelp, m.width),
	)
}

func (m Model) renderPreviewView() string {
	title := "Final Prompt"
	help := []string{"c copy • y copy JSON • x download prompt.txt • s save • esc back"}
	if m.previewSaved != nil {
		title = m.previewSaved.Title()
		help = []string{"c copy • esc back"}
	}

	top, bottom := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom())
	content := StyleContentContainer.Render(lipgloss.JoinVertical(lipgloss.Left, top, m.viewport.View(), bottom))

	return lipgloss.JoinVertical(lipgloss.Left,
		CreateSubPageHeader(title),
		content,
		CreateContextualHelp(help, nil, false, m.width),
	)
}
