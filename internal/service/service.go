package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/dpshade/prompt-builder/internal/analyzer"
	"github.com/dpshade/prompt-builder/internal/clipboard"
	"github.com/dpshade/prompt-builder/internal/composer"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/storage"
)

// DefaultFallbackDelay is how long the session waits after a failed generation
// before applying the demo prompt
const DefaultFallbackDelay = 3 * time.Second

// Generator produces a prompt from a generation request
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	Generator     Generator
	Copier        clipboard.Copier
	Store         *storage.SavedPromptStore
	FallbackDelay time.Duration
	Logger        *logger.Logger
}

// Service owns one editing session: the draft, its derived prompt and analysis,
// and the prompts saved during the session. It is driven from a single goroutine.
type Service struct {
	draft       models.PromptDraft
	templateKey models.TemplateKey
	finalPrompt string
	analysis    *models.AnalysisResult

	saved         *storage.SavedPromptStore
	generator     Generator
	copier        clipboard.Copier
	fallbackDelay time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// NewService creates a session with an empty draft
func NewService(opts Options) *Service {
	if opts.Store == nil {
		opts.Store = storage.NewSavedPromptStore()
	}
	if opts.Copier == nil {
		opts.Copier = clipboard.System{}
	}
	if opts.FallbackDelay < 0 {
		opts.FallbackDelay = 0
	} else if opts.FallbackDelay == 0 {
		opts.FallbackDelay = DefaultFallbackDelay
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	s := &Service{
		saved:         opts.Store,
		generator:     opts.Generator,
		copier:        opts.Copier,
		fallbackDelay: opts.FallbackDelay,
		log:           opts.Logger,
		now:           time.Now,
	}
	s.recompute()
	return s
}

// recompute derives the final prompt and its analysis from the draft
func (s *Service) recompute() {
	s.finalPrompt = composer.Compose(s.draft)
	s.analysis = analyzer.Analyze(s.finalPrompt)
}

// Draft returns a copy of the current draft
func (s *Service) Draft() models.PromptDraft {
	return s.draft.Clone()
}

// TemplateKey returns the template last loaded, or ""
func (s *Service) TemplateKey() models.TemplateKey {
	return s.templateKey
}

// FinalPrompt returns the composed prompt for the current draft
func (s *Service) FinalPrompt() string {
	return s.finalPrompt
}

// Analysis returns the analysis of the final prompt, or nil when it is blank
func (s *Service) Analysis() *models.AnalysisResult {
	return s.analysis
}

// FallbackDelay returns the configured demo fallback delay
func (s *Service) FallbackDelay() time.Duration {
	return s.fallbackDelay
}

func (s *Service) SetUserContext(v string) {
	s.draft.UserContext = v
	s.recompute()
}

func (s *Service) SetBackgroundContext(v string) {
	s.draft.BackgroundContext = v
	s.recompute()
}

func (s *Service) SetMainInstruction(v string) {
	s.draft.MainInstruction = v
	s.recompute()
}

// SetDraft replaces the whole draft after checking its constraint kinds
func (s *Service) SetDraft(d models.PromptDraft) error {
	if err := composer.Validate(d); err != nil {
		return err
	}
	s.draft = d.Clone()
	s.recompute()
	return nil
}

// AddConstraint appends a constraint and returns its id
func (s *Service) AddConstraint(kind models.ConstraintKind, value string) (string, error) {
	c, err := models.NewConstraint(kind, value)
	if err != nil {
		return "", err
	}
	s.draft.Constraints = append(s.draft.Constraints, c)
	s.recompute()
	return c.ID, nil
}

func (s *Service) UpdateConstraint(id, value string) error {
	for i := range s.draft.Constraints {
		if s.draft.Constraints[i].ID == id {
			s.draft.Constraints[i].Value = value
			s.recompute()
			return nil
		}
	}
	return apperrors.NotFoundError("constraint " + id)
}

func (s *Service) RemoveConstraint(id string) error {
	for i, c := range s.draft.Constraints {
		if c.ID == id {
			s.draft.Constraints = append(s.draft.Constraints[:i:i], s.draft.Constraints[i+1:]...)
			s.recompute()
			return nil
		}
	}
	return apperrors.NotFoundError("constraint " + id)
}

// AddGuideline appends a guideline and returns its id
func (s *Service) AddGuideline(text string) string {
	g := models.NewGuideline(text)
	s.draft.Guidelines = append(s.draft.Guidelines, g)
	s.recompute()
	return g.ID
}

func (s *Service) UpdateGuideline(id, text string) error {
	for i := range s.draft.Guidelines {
		if s.draft.Guidelines[i].ID == id {
			s.draft.Guidelines[i].Text = text
			s.recompute()
			return nil
		}
	}
	return apperrors.NotFoundError("guideline " + id)
}

func (s *Service) RemoveGuideline(id string) error {
	for i, g := range s.draft.Guidelines {
		if g.ID == id {
			s.draft.Guidelines = append(s.draft.Guidelines[:i:i], s.draft.Guidelines[i+1:]...)
			s.recompute()
			return nil
		}
	}
	return apperrors.NotFoundError("guideline " + id)
}

// LoadTemplate replaces the main instruction with the template's example
func (s *Service) LoadTemplate(key models.TemplateKey) error {
	tmpl, ok := models.LookupTemplate(key)
	if !ok {
		return apperrors.NotFoundError(fmt.Sprintf("template %q", key))
	}
	s.templateKey = key
	s.draft.MainInstruction = tmpl.Example
	s.recompute()
	return nil
}

// ClearAll resets the draft and the selected template
func (s *Service) ClearAll() {
	s.draft = models.PromptDraft{}
	s.templateKey = ""
	s.recompute()
}

// Save snapshots the final prompt. An empty name becomes "Prompt N".
func (s *Service) Save(name string) (models.SavedPrompt, error) {
	if strings.TrimSpace(s.finalPrompt) == "" {
		return models.SavedPrompt{}, apperrors.ValidationError("nothing to save: the prompt is empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Prompt %d", s.saved.Len()+1)
	}

	p := models.SavedPrompt{
		ID:           newID(),
		Name:         name,
		Content:      s.finalPrompt,
		TemplateKind: s.templateKey,
		CreatedAt:    s.now(),
	}
	if err := s.saved.Add(p); err != nil {
		return models.SavedPrompt{}, err
	}
	s.log.Debug("prompt saved", "id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) ListSaved() []models.SavedPrompt {
	return s.saved.List()
}

func (s *Service) GetSaved(id string) (models.SavedPrompt, error) {
	return s.saved.Get(id)
}

func (s *Service) DeleteSaved(id string) error {
	return s.saved.Delete(id)
}

// SearchSaved fuzzy-matches query against saved prompt names and content
func (s *Service) SearchSaved(query string) []models.SavedPrompt {
	prompts := s.saved.List()
	if strings.TrimSpace(query) == "" {
		return prompts
	}

	searchStrings := make([]string, len(prompts))
	for i, p := range prompts {
		searchStrings[i] = p.Name + " " + p.Content
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]models.SavedPrompt, 0, len(matches))
	for _, match := range matches {
		results = append(results, prompts[match.Index])
	}
	return results
}

// SearchTemplates fuzzy-matches query against template names and keys
func SearchTemplates(query string) []models.Template {
	templates := models.Templates()
	if strings.TrimSpace(query) == "" {
		return templates
	}

	searchStrings := make([]string, len(templates))
	for i, t := range templates {
		searchStrings[i] = t.DisplayName + " " + string(t.Key)
	}

	var results []models.Template
	for _, match := range fuzzy.Find(query, searchStrings) {
		results = append(results, templates[match.Index])
	}
	return results
}

// Copy puts the final prompt on the clipboard unmodified
func (s *Service) Copy() (string, error) {
	if s.finalPrompt == "" {
		return "", apperrors.ValidationError("nothing to copy: the prompt is empty")
	}
	return clipboard.CopyWithFallback(s.copier, s.finalPrompt)
}

// Export writes the final prompt to path unmodified
func (s *Service) Export(path string) error {
	if s.finalPrompt == "" {
		return apperrors.ValidationError("nothing to export: the prompt is empty")
	}
	return storage.ExportText(path, s.finalPrompt)
}

// ExportSaved writes every saved prompt into dir and returns the file paths
func (s *Service) ExportSaved(dir string) ([]string, error) {
	var paths []string
	for _, p := range s.saved.List() {
		path, err := storage.ExportSaved(dir, p)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
