// Package relay makes the single upstream call that turns a short description
// into a ready-to-use prompt.
//
// With no provider credential the relay answers from a fixed template instead of
// failing. With a credential it makes exactly one attempt; any failure is returned
// as GENERATION_FAILED and recovery is left to the caller.
package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/models"
)

const (
	SystemPrompt = "You create excellent, safe, well-structured prompts. " +
		"Return exactly one ready-to-use prompt and no commentary."

	DefaultTemperature float32 = 0.2
	DefaultTimeout             = 30 * time.Second

	notProvided = "not provided"
)

// Options tune the upstream call. A nil Temperature means DefaultTemperature;
// zero is a valid setting.
type Options struct {
	Temperature *float32
	Timeout     time.Duration
}

// Relay forwards generation requests to a chat model
type Relay struct {
	model model.BaseChatModel
	opts  Options
	log   *logger.Logger
}

// New creates a relay. A nil chatModel puts the relay in fallback mode.
func New(chatModel model.BaseChatModel, opts Options, log *logger.Logger) *Relay {
	if opts.Temperature == nil {
		t := DefaultTemperature
		opts.Temperature = &t
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Relay{model: chatModel, opts: opts, log: log}
}

// Configured reports whether an upstream model is available
func (r *Relay) Configured() bool {
	return r.model != nil
}

// Generate returns one prompt for req. A blank description fails validation
// before anything else happens.
func (r *Relay) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	req = req.Trimmed()
	if req.Description == "" {
		return "", apperrors.ValidationError("description is required")
	}

	if r.model == nil {
		r.log.Debug("no provider credential, using fallback prompt")
		return FallbackPrompt(req), nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.model.Generate(ctx, BuildMessages(req), model.WithTemperature(*r.opts.Temperature))
	if err != nil {
		r.log.Warn("upstream generation failed",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", apperrors.GenerationFailed(err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Content)
	}
	if text == "" {
		r.log.Warn("upstream returned no text", "duration_ms", time.Since(start).Milliseconds())
		return "", apperrors.GenerationFailed(fmt.Errorf("upstream returned no usable text"))
	}

	r.log.Info("prompt generated",
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// BuildMessages returns the system and user messages for req
func BuildMessages(req models.GenerationRequest) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(UserMessage(req)),
	}
}

// UserMessage combines the three request fields into the upstream user turn
func UserMessage(req models.GenerationRequest) string {
	return fmt.Sprintf("Description: %s\nUser context: %s\nAdditional context: %s\n\nWrite one optimized prompt only.",
		req.Description, orNotProvided(req.UserContext), orNotProvided(req.AdditionalContext))
}

// FallbackPrompt is the deterministic result used when no credential is configured
func FallbackPrompt(req models.GenerationRequest) string {
	req = req.Trimmed()
	var b strings.Builder
	b.WriteString("Write a single, ready-to-use prompt for a language model based on the details below.\n\n")
	fmt.Fprintf(&b, "Goal: %s\n", req.Description)
	fmt.Fprintf(&b, "User context: %s\n", orNotProvided(req.UserContext))
	fmt.Fprintf(&b, "Extra context: %s\n\n", orNotProvided(req.AdditionalContext))
	b.WriteString("Structure the output with clear sections, numbered steps, and concrete examples.")
	return b.String()
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}
