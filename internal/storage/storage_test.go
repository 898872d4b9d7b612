package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

func TestSavedPromptStoreCRUD(t *testing.T) {
	store := NewSavedPromptStore()
	now := time.Now()

	require.NoError(t, store.Add(models.SavedPrompt{ID: "a", Name: "Prompt 1", Content: "one", CreatedAt: now}))
	require.NoError(t, store.Add(models.SavedPrompt{ID: "b", Name: "Prompt 2", Content: "two", CreatedAt: now.Add(time.Second)}))
	assert.Equal(t, 2, store.Len())

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Content)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", store.ListNewestFirst()[0].ID)

	require.NoError(t, store.Delete("a"))
	_, err = store.Get("a")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	assert.True(t, apperrors.IsCode(store.Delete("a"), apperrors.ErrCodeNotFound))
	assert.Equal(t, 1, store.Len())
}

func TestSavedPromptStoreRejectsMissingID(t *testing.T) {
	err := NewSavedPromptStore().Add(models.SavedPrompt{Name: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestSavedPromptStoreConcurrentAdds(t *testing.T) {
	store := NewSavedPromptStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Add(models.SavedPrompt{ID: string(rune('A' + i)), Content: "c"})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, store.Len())
}

func TestExportTextWritesContentUnmodified(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultExportName)
	content := "User context: dev\n\nExplain goroutines.\n\nConstraints:\n- Target Audience: beginners"

	require.NoError(t, ExportText(path, content))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestExportSavedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := models.SavedPrompt{
		ID:           "123",
		Name:         "Prompt 3: Physics!",
		Content:      "Explain gravity.\n\nAdditional Guidelines:\n- keep it short",
		TemplateKind: models.TemplateContextual,
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	path, err := ExportSaved(dir, p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prompt-3-physics.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Prompt 3: Physics!")
	assert.Contains(t, string(raw), "template: contextual")

	loaded, err := ReadPromptFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, p.Name, loaded.Name)
	assert.Equal(t, p.Content, loaded.Content)
	assert.Equal(t, p.TemplateKind, loaded.TemplateKind)
	assert.True(t, p.CreatedAt.Equal(loaded.CreatedAt))
}

func TestReadPromptFileKeepsLongLines(t *testing.T) {
	dir := t.TempDir()
	p := models.SavedPrompt{
		ID:      "long",
		Name:    "Long",
		Content: "Summarize:\n" + strings.Repeat("word ", 30*1024),
	}

	path, err := ExportSaved(dir, p)
	require.NoError(t, err)

	loaded, err := ReadPromptFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Content, loaded.Content)
}

func TestReadPromptFilePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("just text\n"), 0644))

	p, err := ReadPromptFile(path)
	require.NoError(t, err)
	assert.Equal(t, "just text\n", p.Content)
	assert.Equal(t, "draft.txt", p.Name)
}
