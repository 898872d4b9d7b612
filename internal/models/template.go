package models

import (
	"fmt"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
)

// TemplateKey identifies one of the built-in prompt templates
type TemplateKey string

const (
	TemplateContextual       TemplateKey = "contextual"
	TemplateSpecificQuestion TemplateKey = "specific-question"
	TemplateCreativeWriting  TemplateKey = "creative-writing"
	TemplateAnalysis         TemplateKey = "analysis"
	TemplateStepByStep       TemplateKey = "step-by-step"
)

// Template is a reusable prompt shape with bracketed slots and a filled-in example
type Template struct {
	Key         TemplateKey `json:"key" yaml:"key"`
	DisplayName string      `json:"name" yaml:"name"`
	Shape       string      `json:"template" yaml:"template"`
	Example     string      `json:"example" yaml:"example"`
}

var templateCatalog = []Template{
	{
		Key:         TemplateContextual,
		DisplayName: "Contextual Prompt",
		Shape:       "In the context of [DOMAIN], [MAIN_REQUEST]. Consider [CONTEXT_DETAILS].",
		Example:     "In the context of space exploration, explain the concept of black holes. Consider recent discoveries and their implications for future missions.",
	},
	{
		Key:         TemplateSpecificQuestion,
		DisplayName: "Specific Question",
		Shape:       "[SPECIFIC_QUESTION] Please provide [DETAIL_LEVEL] explanation including [REQUIRED_ELEMENTS].",
		Example:     "What are the key principles of supply and demand in economics? Please provide a detailed explanation including real-world examples and current market applications.",
	},
	{
		Key:         TemplateCreativeWriting,
		DisplayName: "Creative Writing",
		Shape:       `Write a [FORMAT] that [CREATIVE_GOAL]. Begin with: "[OPENING_LINE]"`,
		Example:     `Write a short story that explores themes of redemption and hope. Begin with: "The old lighthouse had been dark for thirty years."`,
	},
	{
		Key:         TemplateAnalysis,
		DisplayName: "Analysis & Comparison",
		Shape:       "Analyze and compare [SUBJECT_A] and [SUBJECT_B] in terms of [CRITERIA]. Focus on [SPECIFIC_ASPECTS].",
		Example:     "Analyze and compare renewable energy and fossil fuels in terms of environmental impact. Focus on long-term sustainability and economic implications.",
	},
	{
		Key:         TemplateStepByStep,
		DisplayName: "Step-by-Step Guide",
		Shape:       "Provide a step-by-step guide for [PROCESS]. Include [REQUIREMENTS] and address [POTENTIAL_CHALLENGES].",
		Example:     "Provide a step-by-step guide for implementing sustainable practices in small businesses. Include cost considerations and address common implementation challenges.",
	},
}

// Templates returns the catalog in display order
func Templates() []Template {
	return append([]Template(nil), templateCatalog...)
}

// LookupTemplate finds a template by key
func LookupTemplate(key TemplateKey) (Template, bool) {
	for _, t := range templateCatalog {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

// ParseTemplateKey converts an untrusted string into a TemplateKey
func ParseTemplateKey(s string) (TemplateKey, error) {
	if _, ok := LookupTemplate(TemplateKey(s)); !ok {
		return "", apperrors.NotFoundError(fmt.Sprintf("template %q", s))
	}
	return TemplateKey(s), nil
}

// FilterValue, Title and Description satisfy the bubbles list.Item interface

func (t Template) FilterValue() string {
	return t.DisplayName + " " + string(t.Key)
}

func (t Template) Title() string {
	return t.DisplayName
}

func (t Template) Description() string {
	return cleanString(t.Shape)
}
