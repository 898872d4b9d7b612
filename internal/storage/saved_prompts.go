package storage

import (
	"sort"
	"sync"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

// SavedPromptStore keeps saved prompts in memory for the lifetime of a session
type SavedPromptStore struct {
	mu      sync.RWMutex
	prompts map[string]models.SavedPrompt
	order   []string
}

// NewSavedPromptStore creates an empty store
func NewSavedPromptStore() *SavedPromptStore {
	return &SavedPromptStore{
		prompts: make(map[string]models.SavedPrompt),
	}
}

// Add stores p, replacing any prompt with the same ID
func (s *SavedPromptStore) Add(p models.SavedPrompt) error {
	if p.ID == "" {
		return apperrors.ValidationError("saved prompt requires an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.prompts[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.prompts[p.ID] = p
	return nil
}

// Get returns the prompt with the given ID
func (s *SavedPromptStore) Get(id string) (models.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[id]
	if !ok {
		return models.SavedPrompt{}, apperrors.NotFoundError("saved prompt " + id)
	}
	return p, nil
}

// Delete removes a prompt by ID
func (s *SavedPromptStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[id]; !ok {
		return apperrors.NotFoundError("saved prompt " + id)
	}
	delete(s.prompts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns prompts in insertion order
func (s *SavedPromptStore) List() []models.SavedPrompt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SavedPrompt, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.prompts[id])
	}
	return out
}

// ListNewestFirst returns prompts ordered by creation time, newest first
func (s *SavedPromptStore) ListNewestFirst() []models.SavedPrompt {
	out := s.List()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of saved prompts
func (s *SavedPromptStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
