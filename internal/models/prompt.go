package models

import (
	"strings"
	"time"
)

// SavedPrompt is an immutable snapshot of a composed prompt
type SavedPrompt struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"title"`
	Content      string      `json:"content" yaml:"-"`
	TemplateKind TemplateKey `json:"type,omitempty" yaml:"template,omitempty"`
	CreatedAt    time.Time   `json:"timestamp" yaml:"created_at"`
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (p SavedPrompt) FilterValue() string {
	return cleanString(p.Name + " " + p.Content)
}

// Title satisfies the list.Item interface
func (p SavedPrompt) Title() string {
	if p.Name != "" {
		return cleanString(p.Name)
	}
	return cleanString(p.ID)
}

// Description satisfies the list.Item interface
func (p SavedPrompt) Description() string {
	var parts []string

	if preview := cleanString(p.Content); preview != "" {
		maxPreviewLength := 60
		if r := []rune(preview); len(r) > maxPreviewLength {
			preview = string(r[:maxPreviewLength-3]) + "..."
		}
		parts = append(parts, preview)
	}

	if p.TemplateKind != "" {
		parts = append(parts, "Template: "+string(p.TemplateKind))
	}

	if !p.CreatedAt.IsZero() {
		parts = append(parts, "Saved: "+p.CreatedAt.Format("2006-01-02 15:04"))
	}

	return strings.Join(parts, " • ")
}

// cleanString removes characters that break single-line rendering
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
