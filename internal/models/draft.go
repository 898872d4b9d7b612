package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
)

// ConstraintKind is the closed set of limitation kinds a constraint can carry
type ConstraintKind string

const (
	ConstraintLength   ConstraintKind = "length"
	ConstraintFormat   ConstraintKind = "format"
	ConstraintAudience ConstraintKind = "audience"
	ConstraintStyle    ConstraintKind = "style"
	ConstraintScope    ConstraintKind = "scope"
	ConstraintEthical  ConstraintKind = "ethical"
)

type constraintMeta struct {
	label       string
	placeholder string
}

var constraintTable = map[ConstraintKind]constraintMeta{
	ConstraintLength:   {"Word/Character Limit", "e.g., 500 words maximum"},
	ConstraintFormat:   {"Format Requirement", "e.g., bullet points, formal tone"},
	ConstraintAudience: {"Target Audience", "e.g., beginners, experts, children"},
	ConstraintStyle:    {"Writing Style", "e.g., academic, conversational, technical"},
	ConstraintScope:    {"Scope Limitation", "e.g., focus on last 5 years, US only"},
	ConstraintEthical:  {"Ethical Guidelines", "e.g., avoid bias, include diverse perspectives"},
}

// ConstraintKinds returns every kind in display order
func ConstraintKinds() []ConstraintKind {
	return []ConstraintKind{
		ConstraintLength,
		ConstraintFormat,
		ConstraintAudience,
		ConstraintStyle,
		ConstraintScope,
		ConstraintEthical,
	}
}

// Valid reports whether k is part of the enumerated set
func (k ConstraintKind) Valid() bool {
	_, ok := constraintTable[k]
	return ok
}

// Label returns the display label, or "" for an unknown kind
func (k ConstraintKind) Label() string {
	return constraintTable[k].label
}

// Placeholder returns the input hint shown for an empty constraint value
func (k ConstraintKind) Placeholder() string {
	return constraintTable[k].placeholder
}

// ParseConstraintKind converts an untrusted tag into a ConstraintKind
func ParseConstraintKind(s string) (ConstraintKind, error) {
	k := ConstraintKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", apperrors.ContractViolation(fmt.Sprintf("unknown constraint kind %q", s)).
			WithContext("kind", s)
	}
	return k, nil
}

// Constraint is a labeled limitation attached to the final prompt. Empty values are
// kept in the draft and skipped when composing.
type Constraint struct {
	ID    string         `json:"id" yaml:"id"`
	Kind  ConstraintKind `json:"kind" yaml:"kind" validate:"constraintkind"`
	Value string         `json:"value" yaml:"value"`
}

// NewConstraint creates a constraint with a fresh id
func NewConstraint(kind ConstraintKind, value string) (Constraint, error) {
	if !kind.Valid() {
		return Constraint{}, apperrors.ContractViolation(fmt.Sprintf("unknown constraint kind %q", kind))
	}
	return Constraint{ID: uuid.NewString(), Kind: kind, Value: value}, nil
}

// Guideline is a free-text directive appended to the prompt
type Guideline struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// NewGuideline creates a guideline with a fresh id
func NewGuideline(text string) Guideline {
	return Guideline{ID: uuid.NewString(), Text: text}
}

// PromptDraft is the editable state the final prompt is composed from.
// The zero value is the empty draft.
type PromptDraft struct {
	UserContext       string       `json:"userContext"`
	BackgroundContext string       `json:"backgroundContext"`
	MainInstruction   string       `json:"mainInstruction"`
	Constraints       []Constraint `json:"constraints" validate:"dive"`
	Guidelines        []Guideline  `json:"guidelines"`
}

// Clone returns a deep copy of the draft
func (d PromptDraft) Clone() PromptDraft {
	out := d
	if d.Constraints != nil {
		out.Constraints = append([]Constraint(nil), d.Constraints...)
	}
	if d.Guidelines != nil {
		out.Guidelines = append([]Guideline(nil), d.Guidelines...)
	}
	return out
}

// AnalysisResult holds the heuristic feedback for a composed prompt
type AnalysisResult struct {
	Strengths []string `json:"strengths"`
	Issues    []string `json:"issues"`
}

// GenerationRequest is the body of a generation call
type GenerationRequest struct {
	Description       string `json:"description" validate:"notblank"`
	UserContext       string `json:"userContext,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// Trimmed returns a copy with every field trimmed
func (r GenerationRequest) Trimmed() GenerationRequest {
	return GenerationRequest{
		Description:       strings.TrimSpace(r.Description),
		UserContext:       strings.TrimSpace(r.UserContext),
		AdditionalContext: strings.TrimSpace(r.AdditionalContext),
	}
}
