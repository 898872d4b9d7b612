// Package analyzer inspects a prompt with a fixed set of string heuristics and
// reports strengths and issues. It never calls out to a model.
package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dpshade/prompt-builder/internal/models"
)

// Feedback messages
const (
	IssueAmbiguousTerms    = "Contains potentially ambiguous terms that may need clarification"
	StrengthFraming        = "Includes contextual framing"
	IssueMissingFraming    = "Consider adding contextual framing for better results"
	IssueMultipleQuestions = "Multiple questions detected - consider breaking into separate prompts"
	StrengthActionVerbs    = "Uses clear action verbs"
	StrengthStructure      = "Well-structured with clear requirements"
	IssueTooShort          = "Prompt may be too short for complex responses"
	IssueTooLong           = "Prompt may be too long - consider simplifying"
	StrengthLength         = "Appropriate length for clear communication"
)

// Thresholds in characters
const (
	FramingMinLength = 20
	MinLength        = 10
	MaxLength        = 500
)

var (
	ambiguousTerms   = []string{"best", "good", "recent", "many", "some", "often"}
	clarifyingTerms  = []string{"specific", "define"}
	framingPhrases   = []string{"context of", "in terms of"}
	structureMarkers = []string{"1.", "•", "include:"}
	actionVerbs      = regexp.MustCompile(`(?i)(explain|describe|analyze)`)
)

// Analyze returns nil for a blank prompt. Checks run in a fixed order and each
// appends to Strengths or Issues independently.
func Analyze(prompt string) *models.AnalysisResult {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil
	}

	result := &models.AnalysisResult{
		Strengths: []string{},
		Issues:    []string{},
	}

	lower := strings.ToLower(prompt)
	if containsAny(lower, ambiguousTerms) && !containsAny(prompt, clarifyingTerms) {
		result.Issues = append(result.Issues, IssueAmbiguousTerms)
	}

	if containsAny(prompt, framingPhrases) {
		result.Strengths = append(result.Strengths, StrengthFraming)
	} else if utf8.RuneCountInString(prompt) > FramingMinLength {
		result.Issues = append(result.Issues, IssueMissingFraming)
	}

	if strings.Count(prompt, "?") >= 2 {
		result.Issues = append(result.Issues, IssueMultipleQuestions)
	}

	if actionVerbs.MatchString(prompt) {
		result.Strengths = append(result.Strengths, StrengthActionVerbs)
	}

	if containsAny(prompt, structureMarkers) {
		result.Strengths = append(result.Strengths, StrengthStructure)
	}

	switch n := utf8.RuneCountInString(trimmed); {
	case n < MinLength:
		result.Issues = append(result.Issues, IssueTooShort)
	case n > MaxLength:
		result.Issues = append(result.Issues, IssueTooLong)
	default:
		result.Strengths = append(result.Strengths, StrengthLength)
	}

	return result
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
