// Package composer turns a PromptDraft into the final prompt text.
//
// Composition is deterministic and idempotent: trimmed fields become labeled
// sections and empty entries are skipped. The context sections end with a blank
// line, the lists open with one, and every list line ends with a newline.
package composer

import (
	"fmt"
	"strings"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

// Section headers and prefixes used in the composed prompt
const (
	UserContextPrefix = "User context: "
	ContextPrefix     = "Context: "
	ConstraintsHeader = "Constraints:"
	GuidelinesHeader  = "Additional Guidelines:"
	bulletPrefix      = "- "
	sectionSeparator  = "\n\n"
)

// SectionKind names a block of the composed prompt
type SectionKind string

const (
	SectionUserContext SectionKind = "user_context"
	SectionContext     SectionKind = "context"
	SectionInstruction SectionKind = "instruction"
	SectionConstraints SectionKind = "constraints"
	SectionGuidelines  SectionKind = "guidelines"
)

// Section is one emitted block. Lines are joined with a single newline.
type Section struct {
	Kind  SectionKind
	Lines []string
}

// Text renders the section body
func (s Section) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Compose builds the final prompt from d. An empty draft yields "".
// It panics if a constraint carries a kind outside the enumerated set; callers
// accepting untrusted drafts run Validate first.
func Compose(d models.PromptDraft) string {
	var b strings.Builder
	for _, s := range Sections(d) {
		switch s.Kind {
		case SectionUserContext, SectionContext:
			b.WriteString(s.Text())
			b.WriteString(sectionSeparator)
		case SectionInstruction:
			b.WriteString(s.Text())
		default:
			b.WriteString(sectionSeparator)
			for _, line := range s.Lines {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// Sections returns the non-empty sections of d in emission order
func Sections(d models.PromptDraft) []Section {
	var sections []Section

	if v := strings.TrimSpace(d.UserContext); v != "" {
		sections = append(sections, Section{Kind: SectionUserContext, Lines: []string{UserContextPrefix + v}})
	}

	if v := strings.TrimSpace(d.BackgroundContext); v != "" {
		sections = append(sections, Section{Kind: SectionContext, Lines: []string{ContextPrefix + v}})
	}

	if v := strings.TrimSpace(d.MainInstruction); v != "" {
		sections = append(sections, Section{Kind: SectionInstruction, Lines: []string{v}})
	}

	var constraints []string
	for _, c := range d.Constraints {
		if !c.Kind.Valid() {
			panic(fmt.Sprintf("composer: constraint %s has unknown kind %q", c.ID, c.Kind))
		}
		v := strings.TrimSpace(c.Value)
		if v == "" {
			continue
		}
		constraints = append(constraints, bulletPrefix+c.Kind.Label()+": "+v)
	}
	if len(constraints) > 0 {
		sections = append(sections, Section{
			Kind:  SectionConstraints,
			Lines: append([]string{ConstraintsHeader}, constraints...),
		})
	}

	var guidelines []string
	for _, g := range d.Guidelines {
		if v := strings.TrimSpace(g.Text); v != "" {
			guidelines = append(guidelines, bulletPrefix+v)
		}
	}
	if len(guidelines) > 0 {
		sections = append(sections, Section{
			Kind:  SectionGuidelines,
			Lines: append([]string{GuidelinesHeader}, guidelines...),
		})
	}

	return sections
}

// Validate reports a CONTRACT_VIOLATION for the first constraint with an unknown kind
func Validate(d models.PromptDraft) error {
	for _, c := range d.Constraints {
		if !c.Kind.Valid() {
			return apperrors.ContractViolation(fmt.Sprintf("unknown constraint kind %q", c.Kind)).
				WithContext("constraint_id", c.ID)
		}
	}
	return nil
}
