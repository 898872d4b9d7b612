package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

func TestComposeEmptyDraft(t *testing.T) {
	assert.Equal(t, "", Compose(models.PromptDraft{}))

	whitespace := models.PromptDraft{
		UserContext:       "  ",
		BackgroundContext: "\n\t",
		MainInstruction:   " ",
		Constraints:       []models.Constraint{{ID: "1", Kind: models.ConstraintLength, Value: "  "}},
		Guidelines:        []models.Guideline{{ID: "2", Text: ""}},
	}
	assert.Equal(t, "", Compose(whitespace))
}

func TestComposeAllSections(t *testing.T) {
	d := models.PromptDraft{
		UserContext:       "  high school tutor ",
		BackgroundContext: "preparing a physics unit",
		MainInstruction:   "\nExplain Newton's laws.\n",
		Constraints: []models.Constraint{
			{ID: "c1", Kind: models.ConstraintAudience, Value: " 15 year olds "},
			{ID: "c2", Kind: models.ConstraintFormat, Value: ""},
			{ID: "c3", Kind: models.ConstraintLength, Value: "300 words"},
		},
		Guidelines: []models.Guideline{
			{ID: "g1", Text: "Use everyday examples"},
			{ID: "g2", Text: "   "},
		},
	}

	want := "User context: high school tutor\n\n" +
		"Context: preparing a physics unit\n\n" +
		"Explain Newton's laws.\n\n" +
		"Constraints:\n" +
		"- Target Audience: 15 year olds\n" +
		"- Word/Character Limit: 300 words\n" +
		"\n\nAdditional Guidelines:\n" +
		"- Use everyday examples\n"

	assert.Equal(t, want, Compose(d))
}

func TestComposeSingleConstraintLine(t *testing.T) {
	d := models.PromptDraft{
		MainInstruction: "Summarize the report",
		Constraints: []models.Constraint{
			{ID: "a", Kind: models.ConstraintLength, Value: "500 words maximum"},
			{ID: "b", Kind: models.ConstraintStyle, Value: ""},
		},
	}

	out := Compose(d)
	idx := strings.Index(out, ConstraintsHeader)
	require.NotEqual(t, -1, idx)
	assert.Equal(t, "Constraints:\n- Word/Character Limit: 500 words maximum\n", out[idx:])
	assert.True(t, strings.HasPrefix(out, "Summarize the report\n\nConstraints:"))
}

func TestComposeSectionsWithoutInstruction(t *testing.T) {
	d := models.PromptDraft{
		UserContext: "analyst",
		Guidelines:  []models.Guideline{{ID: "g", Text: "be brief"}},
	}

	assert.Equal(t, "User context: analyst\n\n\n\nAdditional Guidelines:\n- be brief\n", Compose(d))
}

func TestComposeContextSectionsKeepTrailingSeparator(t *testing.T) {
	assert.Equal(t, "User context: I am a tutor\n\n", Compose(models.PromptDraft{UserContext: " I am a tutor "}))
	assert.Equal(t, "User context: tutor\n\nContext: exam week\n\n",
		Compose(models.PromptDraft{UserContext: "tutor", BackgroundContext: "exam week"}))
}

func TestComposeIsIdempotent(t *testing.T) {
	d := models.PromptDraft{
		UserContext:     "x",
		MainInstruction: "y",
		Constraints:     []models.Constraint{{ID: "1", Kind: models.ConstraintEthical, Value: "avoid bias"}},
	}

	first := Compose(d)
	assert.Equal(t, first, Compose(d))
	assert.Equal(t, first, Compose(d.Clone()))
}

func TestComposeTrimsEachField(t *testing.T) {
	d := models.PromptDraft{
		MainInstruction: "  body  ",
		Guidelines:      []models.Guideline{{ID: "g", Text: " tail "}},
	}

	assert.Equal(t, "body\n\nAdditional Guidelines:\n- tail\n", Compose(d))
}

func TestComposePanicsOnUnknownKind(t *testing.T) {
	d := models.PromptDraft{
		Constraints: []models.Constraint{{ID: "x", Kind: models.ConstraintKind("mood"), Value: "calm"}},
	}

	assert.Panics(t, func() { Compose(d) })

	err := Validate(d)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeContractViolation))
}

func TestSectionsKinds(t *testing.T) {
	d := models.PromptDraft{
		BackgroundContext: "ctx",
		MainInstruction:   "do it",
		Constraints:       []models.Constraint{{ID: "1", Kind: models.ConstraintScope, Value: "US only"}},
	}

	sections := Sections(d)
	require.Len(t, sections, 3)
	assert.Equal(t, SectionContext, sections[0].Kind)
	assert.Equal(t, SectionInstruction, sections[1].Kind)
	assert.Equal(t, SectionConstraints, sections[2].Kind)
	assert.Equal(t, []string{"Constraints:", "- Scope Limitation: US only"}, sections[2].Lines)
	assert.NoError(t, Validate(d))
}
