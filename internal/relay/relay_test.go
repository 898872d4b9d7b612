package relay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

type fakeChatModel struct {
	reply       *schema.Message
	err         error
	delay       time.Duration
	calls       int
	lastInput   []*schema.Message
	temperature *float32
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	f.lastInput = input
	f.temperature = model.GetCommonOptions(&model.Options{}, opts...).Temperature
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestGenerateRejectsBlankDescription(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("unused", nil)}
	r := New(fake, Options{}, nil)

	_, err := r.Generate(context.Background(), models.GenerationRequest{Description: "   ", UserContext: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	assert.Equal(t, 0, fake.calls)

	_, err = New(nil, Options{}, nil).Generate(context.Background(), models.GenerationRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestGenerateFallbackWithoutCredential(t *testing.T) {
	r := New(nil, Options{}, nil)
	req := models.GenerationRequest{
		Description:       "  onboarding email for new hires ",
		UserContext:       " HR manager ",
		AdditionalContext: "remote-first company",
	}

	first, err := r.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Goal: onboarding email for new hires\n")
	assert.Contains(t, first, "User context: HR manager\n")
	assert.Contains(t, first, "Extra context: remote-first company\n")
	assert.False(t, r.Configured())
}

func TestFallbackPromptMissingFields(t *testing.T) {
	out := FallbackPrompt(models.GenerationRequest{Description: "a haiku"})
	assert.Contains(t, out, "User context: not provided")
	assert.Contains(t, out, "Extra context: not provided")
}

func TestGenerateSuccess(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("  You are a tutor. Explain fractions.  ", nil)}
	r := New(fake, Options{}, nil)

	out, err := r.Generate(context.Background(), models.GenerationRequest{
		Description: "teach fractions",
		UserContext: "parent",
	})
	require.NoError(t, err)
	assert.Equal(t, "You are a tutor. Explain fractions.", out)
	assert.Equal(t, 1, fake.calls)

	require.Len(t, fake.lastInput, 2)
	assert.Equal(t, schema.System, fake.lastInput[0].Role)
	assert.Equal(t, SystemPrompt, fake.lastInput[0].Content)
	assert.Equal(t, schema.User, fake.lastInput[1].Role)
	assert.Equal(t, "Description: teach fractions\nUser context: parent\nAdditional context: not provided\n\nWrite one optimized prompt only.",
		fake.lastInput[1].Content)

	require.NotNil(t, fake.temperature)
	assert.InDelta(t, 0.2, *fake.temperature, 0.0001)
}

func TestGenerateHonorsZeroTemperature(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("Deterministic prompt", nil)}
	zero := float32(0)
	r := New(fake, Options{Temperature: &zero}, nil)

	_, err := r.Generate(context.Background(), models.GenerationRequest{Description: "teach fractions"})
	require.NoError(t, err)
	require.NotNil(t, fake.temperature)
	assert.Equal(t, float32(0), *fake.temperature)
}

func TestGenerateUpstreamErrorSingleAttempt(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("status 401: invalid api key")}
	r := New(fake, Options{}, nil)

	_, err := r.Generate(context.Background(), models.GenerationRequest{Description: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGenerationFailed))
	assert.Contains(t, apperrors.GetAppError(err).Details, "invalid api key")
	assert.Equal(t, 1, fake.calls)
}

func TestGenerateEmptyReplyFails(t *testing.T) {
	for name, reply := range map[string]*schema.Message{
		"nil":        nil,
		"whitespace": schema.AssistantMessage(" \n ", nil),
	} {
		t.Run(name, func(t *testing.T) {
			fake := &fakeChatModel{reply: reply}
			_, err := New(fake, Options{}, nil).Generate(context.Background(), models.GenerationRequest{Description: "x"})
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGenerationFailed))
			assert.Equal(t, 1, fake.calls)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	fake := &fakeChatModel{delay: time.Second, reply: schema.AssistantMessage("late", nil)}
	r := New(fake, Options{Timeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	_, err := r.Generate(context.Background(), models.GenerationRequest{Description: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGenerationFailed))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, fake.calls)
}

func TestUserMessageEndsWithInstruction(t *testing.T) {
	msg := UserMessage(models.GenerationRequest{Description: "d", UserContext: "u", AdditionalContext: "a"})
	assert.True(t, strings.HasSuffix(msg, "Write one optimized prompt only."))
}
