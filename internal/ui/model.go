package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/dpshade/prompt-builder/internal/clipboard"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/renderer"
	"github.com/dpshade/prompt-builder/internal/service"
)

// ExportFileName is the file the builder downloads the final prompt to
const ExportFileName = "prompt.txt"

// Options configures the interactive builder
type Options struct {
	Generator     service.Generator
	FallbackDelay time.Duration
	Copier        clipboard.Copier
	Logger        *logger.Logger
	// ExportDir receives prompt.txt and saved prompt files. Defaults to ".".
	ExportDir string
}

// ViewMode represents the current view
type ViewMode int

const (
	ViewBuilder ViewMode = iota
	ViewGenerator
	ViewKindPicker
	ViewItemEditor
	ViewItems
	ViewTemplates
	ViewSaved
	ViewPreview
)

var errNoGenerator = errors.New("no generator configured")

// generatedMsg carries the result of one generation call
type generatedMsg struct {
	seq         int
	description string
	prompt      string
	err         error
}

// fallbackMsg fires once the fallback delay after a failed generation has passed
type fallbackMsg struct {
	seq         int
	description string
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

// clearStatusCmd returns a command that clears the status message after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// itemEdit is the constraint or guideline being typed in the item editor.
// An empty id means the entry is new.
type itemEdit struct {
	constraint bool
	kind       models.ConstraintKind
	id         string
}

// Model represents the application state
type Model struct {
	ctx        context.Context
	svc        *service.Service
	generator  service.Generator
	copier     clipboard.Copier
	errHandler *apperrors.TUIErrorHandler
	log        *logger.Logger
	exportDir  string

	// UI state
	viewMode   ViewMode
	returnMode ViewMode
	keys       KeyMap

	form        *BuilderForm
	description textinput.Model
	editor      textinput.Model
	editing     itemEdit
	kindCursor  int
	itemCursor  int

	templateList list.Model
	savedList    list.Model

	// Preview state
	viewport        viewport.Model
	glamourRenderer *glamour.TermRenderer
	previewSaved    *models.SavedPrompt

	// Generation state
	generating      bool
	genSeq          int
	genErr          error
	fallbackPending bool

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusType    string
	statusTimeout int

	showExpandedHelp bool
}

// KeyMap defines all key bindings
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Enter         key.Binding
	Back          key.Binding
	Quit          key.Binding
	ExpandHelp    key.Binding
	ToggleMode    key.Binding
	AddConstraint key.Binding
	AddGuideline  key.Binding
	Items         key.Binding
	Templates     key.Binding
	Saved         key.Binding
	Preview       key.Binding
	Save          key.Binding
	Copy          key.Binding
	Export        key.Binding
	ClearAll      key.Binding
	Delete        key.Binding
	CopyPlain     key.Binding
	CopyJSON      key.Binding
	ExportPlain   key.Binding
	SavePlain     key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+c", "quit"),
	),
	ExpandHelp: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "expand help"),
	),
	ToggleMode: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("Ctrl+g", "builder/generator"),
	),
	AddConstraint: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("Ctrl+k", "add constraint"),
	),
	AddGuideline: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("Ctrl+l", "add guideline"),
	),
	Items: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("Ctrl+o", "edit constraints & guidelines"),
	),
	Templates: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("Ctrl+t", "templates"),
	),
	Saved: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("Ctrl+f", "saved prompts"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("Ctrl+p", "preview"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "save"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("Ctrl+y", "copy"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("Ctrl+e", "download prompt.txt"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("Ctrl+r", "clear all"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	CopyPlain: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy as JSON"),
	),
	ExportPlain: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	SavePlain: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
}

// NewModel creates a new TUI model with an empty draft
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Copier == nil {
		opts.Copier = clipboard.System{}
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	svc := service.NewService(service.Options{
		Generator:     opts.Generator,
		Copier:        opts.Copier,
		FallbackDelay: opts.FallbackDelay,
		Logger:        opts.Logger,
	})

	desc := textinput.New()
	desc.Placeholder = "Describe the prompt you need, e.g. explain vector databases to a new hire"
	desc.CharLimit = 1000

	editor := textinput.New()
	editor.CharLimit = 500

	templateList := list.New(templateItems(service.SearchTemplates("")), list.NewDefaultDelegate(), 80, 20)
	templateList.Title = "Templates"
	templateList.SetShowHelp(false)
	templateList.KeyMap.Quit.SetEnabled(false)

	savedList := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	savedList.Title = "Saved Prompts"
	savedList.SetShowHelp(false)
	savedList.KeyMap.Quit.SetEnabled(false)
	savedList.SetStatusBarItemName("prompt", "prompts")

	glamourRenderer, err := renderer.NewTerminalRenderer(76)
	if err != nil {
		opts.Logger.Warn("glamour renderer unavailable", "error", err.Error())
	}

	return Model{
		ctx:             ctx,
		svc:             svc,
		generator:       opts.Generator,
		copier:          opts.Copier,
		errHandler:      apperrors.NewTUIErrorHandler(false, opts.Logger),
		log:             opts.Logger,
		exportDir:       opts.ExportDir,
		viewMode:        ViewBuilder,
		keys:            keys,
		form:            NewBuilderForm(),
		description:     desc,
		editor:          editor,
		templateList:    templateList,
		savedList:       savedList,
		viewport:        viewport.New(76, 20),
		glamourRenderer: glamourRenderer,
		width:           80,
		height:          24,
	}
}

// Service exposes the session behind the model
func (m Model) Service() *service.Service {
	return m.svc
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the interactive builder and blocks until it exits or ctx is done
func Run(ctx context.Context, opts Options) error {
	initializeColors()

	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// setStatus shows text in the status bar for a few seconds
func (m *Model) setStatus(text, statusType string) tea.Cmd {
	m.statusMsg = text
	m.statusType = statusType
	m.statusTimeout = 3
	return clearStatusCmd()
}

// setError shows err in the status bar
func (m *Model) setError(err error) tea.Cmd {
	m.errHandler.HandleError(err)
	icon, _ := m.errHandler.GetErrorStyle(err)
	return m.setStatus(icon+" "+m.errHandler.FormatError(err), "error")
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case generatedMsg:
		return m.handleGenerated(msg)

	case fallbackMsg:
		return m.handleFallback(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.ExpandHelp) {
			m.showExpandedHelp = !m.showExpandedHelp
			return m, nil
		}

		switch m.viewMode {
		case ViewBuilder:
			return m.updateBuilder(msg)
		case ViewGenerator:
			return m.updateGenerator(msg)
		case ViewKindPicker:
			return m.updateKindPicker(msg)
		case ViewItemEditor:
			return m.updateItemEditor(msg)
		case ViewItems:
			return m.updateItems(msg)
		case ViewTemplates:
			return m.updateTemplates(msg)
		case ViewSaved:
			return m.updateSaved(msg)
		case ViewPreview:
			return m.updatePreview(msg)
		}
	}

	// Forward everything else (cursor blink, etc.) to the active input
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewBuilder:
		cmd = m.form.Update(msg)
	case ViewGenerator:
		m.description, cmd = m.description.Update(msg)
	case ViewItemEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Reserve space for: title (1) + spacing (1) + help (2) + status (1) + margins (2)
	const minReservedHeight = 7
	availableHeight := height - minReservedHeight
	if availableHeight < 5 {
		availableHeight = 5
	}

	m.form.Resize(width)
	m.description.Width = width - 8
	m.editor.Width = width - 8
	m.templateList.SetSize(width-4, availableHeight)
	m.savedList.SetSize(width-4, availableHeight)

	viewportWidth := width - 8
	if viewportWidth < 40 {
		viewportWidth = 40 // Minimum readable width
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = availableHeight - 2
	if r, err := renderer.NewTerminalRenderer(viewportWidth - 4); err == nil {
		m.glamourRenderer = r
	}
	if m.viewMode == ViewPreview {
		m.renderPreview()
	}
}

// syncDraft pushes changed form fields into the session
func (m *Model) syncDraft() {
	d := m.svc.Draft()
	if v := m.form.UserContext(); v != d.UserContext {
		m.svc.SetUserContext(v)
	}
	if v := m.form.BackgroundContext(); v != d.BackgroundContext {
		m.svc.SetBackgroundContext(v)
	}
	if v := m.form.MainInstruction(); v != d.MainInstruction {
		m.svc.SetMainInstruction(v)
	}
}

func (m Model) updateBuilder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleMode):
		m.viewMode = ViewGenerator
		cmd := m.description.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.AddConstraint):
		m.returnMode = ViewBuilder
		m.kindCursor = 0
		m.viewMode = ViewKindPicker
		return m, nil

	case key.Matches(msg, m.keys.AddGuideline):
		m.returnMode = ViewBuilder
		cmd := m.startEditor(itemEdit{}, "")
		return m, cmd

	case key.Matches(msg, m.keys.Items):
		m.itemCursor = 0
		m.viewMode = ViewItems
		return m, nil

	case key.Matches(msg, m.keys.Templates):
		m.viewMode = ViewTemplates
		return m, nil

	case key.Matches(msg, m.keys.Saved):
		m.refreshSaved()
		m.viewMode = ViewSaved
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.previewSaved = nil
		m.renderPreview()
		m.viewMode = ViewPreview
		return m, nil

	case key.Matches(msg, m.keys.Save):
		cmd := m.save()
		return m, cmd

	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyFinal()
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		cmd := m.export()
		return m, cmd

	case key.Matches(msg, m.keys.ClearAll):
		m.svc.ClearAll()
		m.form.Load(models.PromptDraft{})
		m.form.Focus(userContextField)
		cmd := m.setStatus("Cleared", "info")
		return m, cmd
	}

	cmd := m.form.Update(msg)
	m.syncDraft()
	return m, cmd
}

func (m Model) updateGenerator(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleMode), key.Matches(msg, m.keys.Back):
		m.description.Blur()
		m.viewMode = ViewBuilder
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.generating {
			return m, nil
		}
		cmd := m.submitGeneration()
		return m, cmd
	}

	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

// submitGeneration starts one generation call off the update loop. The draft
// is read here so the service is only touched from Update.
func (m *Model) submitGeneration() tea.Cmd {
	description := strings.TrimSpace(m.description.Value())
	if description == "" {
		return m.setError(apperrors.ValidationError("Describe the prompt you want to generate first"))
	}

	m.genSeq++
	m.generating = true
	m.genErr = nil
	m.fallbackPending = false

	seq := m.genSeq
	req := m.svc.GenerationRequest(description)
	gen := m.generator
	ctx := m.ctx
	m.log.Debug("generation requested", "seq", seq)

	return func() tea.Msg {
		if gen == nil {
			return generatedMsg{seq: seq, description: description, err: apperrors.GenerationFailed(errNoGenerator)}
		}
		prompt, err := gen.Generate(ctx, req)
		return generatedMsg{seq: seq, description: description, prompt: prompt, err: err}
	}
}

func (m Model) handleGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.genSeq {
		return m, nil
	}
	m.generating = false

	if msg.err == nil {
		m.svc.SetMainInstruction(msg.prompt)
		m.form.SetInstruction(msg.prompt)
		m.form.Focus(instructionField)
		m.description.Blur()
		m.viewMode = ViewBuilder
		cmd := m.setStatus("✓ Prompt generated", "success")
		return m, cmd
	}

	m.genErr = msg.err
	m.errHandler.HandleError(msg.err)
	if !service.Recoverable(msg.err) {
		return m, nil
	}

	m.fallbackPending = true
	seq, description := msg.seq, msg.description
	return m, tea.Tick(m.svc.FallbackDelay(), func(time.Time) tea.Msg {
		return fallbackMsg{seq: seq, description: description}
	})
}

func (m Model) handleFallback(msg fallbackMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.genSeq || !m.fallbackPending {
		return m, nil
	}
	m.fallbackPending = false
	m.genErr = nil

	prompt := m.svc.ApplyDemoFallback(msg.description)
	m.form.SetInstruction(prompt)
	m.form.Focus(instructionField)
	m.description.Blur()
	m.viewMode = ViewBuilder
	m.log.Info("demo fallback applied", "seq", msg.seq)
	cmd := m.setStatus("⚠️  Demo prompt applied", "warning")
	return m, cmd
}

func (m Model) updateKindPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kinds := models.ConstraintKinds()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.viewMode = m.returnMode
	case key.Matches(msg, m.keys.Up):
		if m.kindCursor > 0 {
			m.kindCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.kindCursor < len(kinds)-1 {
			m.kindCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		kind := kinds[m.kindCursor]
		cmd := m.startEditor(itemEdit{constraint: true, kind: kind}, "")
		return m, cmd
	}
	return m, nil
}

// startEditor opens the item editor for a new or existing entry
func (m *Model) startEditor(edit itemEdit, value string) tea.Cmd {
	m.editing = edit
	m.editor.SetValue(value)
	m.editor.CursorEnd()
	if edit.constraint {
		m.editor.Placeholder = edit.kind.Placeholder()
	} else {
		m.editor.Placeholder = "e.g., cite your sources"
	}
	m.viewMode = ViewItemEditor
	return m.editor.Focus()
}

func (m Model) updateItemEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.editor.Blur()
		m.viewMode = m.returnMode
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.editor.Blur()
		m.viewMode = m.returnMode
		if err := m.commitEdit(m.editor.Value()); err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) commitEdit(value string) error {
	e := m.editing
	switch {
	case e.constraint && e.id == "":
		_, err := m.svc.AddConstraint(e.kind, value)
		return err
	case e.constraint:
		return m.svc.UpdateConstraint(e.id, value)
	case e.id == "":
		if strings.TrimSpace(value) == "" {
			return nil
		}
		m.svc.AddGuideline(value)
		return nil
	default:
		return m.svc.UpdateGuideline(e.id, value)
	}
}

// draftItem is one row of the constraints & guidelines editor
type draftItem struct {
	constraint bool
	kind       models.ConstraintKind
	id         string
	text       string
}

func (m Model) draftItems() []draftItem {
	d := m.svc.Draft()
	items := make([]draftItem, 0, len(d.Constraints)+len(d.Guidelines))
	for _, c := range d.Constraints {
		items = append(items, draftItem{constraint: true, kind: c.Kind, id: c.ID, text: c.Value})
	}
	for _, g := range d.Guidelines {
		items = append(items, draftItem{id: g.ID, text: g.Text})
	}
	return items
}

func (m Model) updateItems(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.draftItems()
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Items):
		m.viewMode = ViewBuilder
	case key.Matches(msg, m.keys.Up):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.itemCursor < len(items)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, m.keys.AddConstraint):
		m.returnMode = ViewItems
		m.kindCursor = 0
		m.viewMode = ViewKindPicker
	case key.Matches(msg, m.keys.AddGuideline):
		m.returnMode = ViewItems
		cmd := m.startEditor(itemEdit{}, "")
		return m, cmd
	case key.Matches(msg, m.keys.Enter):
		if m.itemCursor < len(items) {
			it := items[m.itemCursor]
			m.returnMode = ViewItems
			cmd := m.startEditor(itemEdit{constraint: it.constraint, kind: it.kind, id: it.id}, it.text)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if m.itemCursor < len(items) {
			it := items[m.itemCursor]
			var err error
			if it.constraint {
				err = m.svc.RemoveConstraint(it.id)
			} else {
				err = m.svc.RemoveGuideline(it.id)
			}
			if err != nil {
				cmd := m.setError(err)
				return m, cmd
			}
			if m.itemCursor >= len(items)-1 && m.itemCursor > 0 {
				m.itemCursor--
			}
		}
	}
	return m, nil
}

func templateItems(templates []models.Template) []list.Item {
	items := make([]list.Item, len(templates))
	for i, t := range templates {
		items[i] = t
	}
	return items
}

func (m Model) updateTemplates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.templateList.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Templates):
			m.templateList.ResetFilter()
			m.viewMode = ViewBuilder
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			t, ok := m.templateList.SelectedItem().(models.Template)
			if !ok {
				return m, nil
			}
			if err := m.svc.LoadTemplate(t.Key); err != nil {
				cmd := m.setError(err)
				return m, cmd
			}
			m.form.SetInstruction(m.svc.Draft().MainInstruction)
			m.form.Focus(instructionField)
			m.templateList.ResetFilter()
			m.viewMode = ViewBuilder
			cmd := m.setStatus("Loaded template: "+t.DisplayName, "success")
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.templateList, cmd = m.templateList.Update(msg)
	return m, cmd
}

func (m *Model) refreshSaved() {
	saved := m.svc.ListSaved()
	items := make([]list.Item, len(saved))
	for i, p := range saved {
		items[i] = p
	}
	m.savedList.SetItems(items)
}

func (m Model) updateSaved(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.savedList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.savedList, cmd = m.savedList.Update(msg)
		return m, cmd
	}

	selected, hasSelection := m.savedList.SelectedItem().(models.SavedPrompt)
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Saved):
		m.savedList.ResetFilter()
		m.viewMode = ViewBuilder
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if hasSelection {
			m.previewSaved = &selected
			m.renderPreview()
			m.viewMode = ViewPreview
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPlain):
		if hasSelection {
			cmd := m.copyText(selected.Content)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			if err := m.svc.DeleteSaved(selected.ID); err != nil {
				cmd := m.setError(err)
				return m, cmd
			}
			m.refreshSaved()
			cmd := m.setStatus("Deleted "+selected.Name, "info")
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.ExportPlain):
		paths, err := m.svc.ExportSaved(m.exportDir)
		if err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Exported %d saved prompts to %s", len(paths), m.exportDir), "success")
		return m, cmd
	}

	var cmd tea.Cmd
	m.savedList, cmd = m.savedList.Update(msg)
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Preview):
		if m.previewSaved != nil {
			m.previewSaved = nil
			m.viewMode = ViewSaved
		} else {
			m.viewMode = ViewBuilder
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyPlain):
		if m.previewSaved != nil {
			cmd := m.copyText(m.previewSaved.Content)
			return m, cmd
		}
		cmd := m.copyFinal()
		return m, cmd

	case key.Matches(msg, m.keys.CopyJSON):
		if m.previewSaved != nil {
			return m, nil
		}
		r := renderer.NewRenderer(m.svc.Draft(), m.svc.FinalPrompt(), m.svc.Analysis())
		out, err := r.RenderJSON()
		if err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		cmd := m.copyText(out)
		return m, cmd

	case key.Matches(msg, m.keys.ExportPlain):
		if m.previewSaved != nil {
			return m, nil
		}
		cmd := m.export()
		return m, cmd

	case key.Matches(msg, m.keys.SavePlain):
		if m.previewSaved != nil {
			return m, nil
		}
		cmd := m.save()
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// renderPreview renders the final prompt, or the saved prompt being viewed, into the viewport
func (m *Model) renderPreview() {
	var md string
	if m.previewSaved != nil {
		md = m.previewSaved.Content
	} else {
		md = renderer.NewRenderer(m.svc.Draft(), m.svc.FinalPrompt(), m.svc.Analysis()).RenderMarkdown()
	}

	formatted := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			formatted = out
		}
	}
	m.viewport.SetContent(formatted)
	m.viewport.GotoTop()
}

func (m *Model) save() tea.Cmd {
	p, err := m.svc.Save("")
	if err != nil {
		return m.setError(err)
	}
	return m.setStatus("✓ Saved as "+p.Name, "success")
}

func (m *Model) copyFinal() tea.Cmd {
	status, err := m.svc.Copy()
	if err != nil {
		return m.setError(err)
	}
	return m.setStatus(status, "success")
}

func (m *Model) copyText(text string) tea.Cmd {
	status, err := clipboard.CopyWithFallback(m.copier, text)
	if err != nil {
		return m.setError(err)
	}
	return m.setStatus(status, "success")
}

func (m *Model) export() tea.Cmd {
	path := filepath.Join(m.exportDir, ExportFileName)
	if err := m.svc.Export(path); err != nil {
		return m.setError(err)
	}
	return m.setStatus("✓ Downloaded "+path, "success")
}
