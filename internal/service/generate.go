package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dpshade/prompt-builder/internal/demo"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

// GenerationOutcome reports how the main instruction was produced
type GenerationOutcome struct {
	Prompt   string
	Fallback bool
	// Err is the generation failure that triggered the fallback
	Err error
}

var errNoGenerator = errors.New("no generator configured")

func newID() string {
	return uuid.NewString()
}

// GenerationRequest builds the request for description from the current draft
func (s *Service) GenerationRequest(description string) models.GenerationRequest {
	return models.GenerationRequest{
		Description:       description,
		UserContext:       s.draft.UserContext,
		AdditionalContext: s.draft.BackgroundContext,
	}.Trimmed()
}

// Generate asks the generator for a prompt and, on success, makes it the main
// instruction. A blank description fails without calling the generator.
func (s *Service) Generate(ctx context.Context, description string) (string, error) {
	req := s.GenerationRequest(description)
	if req.Description == "" {
		return "", apperrors.ValidationError("description is required")
	}
	if s.generator == nil {
		return "", apperrors.GenerationFailed(errNoGenerator)
	}

	prompt, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.log.Warn("generation failed", "error", err.Error())
		return "", err
	}
	s.SetMainInstruction(prompt)
	return prompt, nil
}

// Recoverable reports whether err should trigger the demo fallback
func Recoverable(err error) bool {
	for _, code := range []apperrors.ErrorCode{
		apperrors.ErrCodeGenerationFailed,
		apperrors.ErrCodeNetworkFailure,
		apperrors.ErrCodeTimeout,
		apperrors.ErrCodeRateLimited,
	} {
		if apperrors.IsCode(err, code) {
			return true
		}
	}
	return false
}

// ApplyDemoFallback sets the main instruction to the demo prompt for description
func (s *Service) ApplyDemoFallback(description string) string {
	prompt := demo.Generate(description)
	s.SetMainInstruction(prompt)
	return prompt
}

// GenerateWithFallback calls Generate and, when it fails recoverably, waits the
// fallback delay and applies the demo prompt instead. Cancelling ctx during the
// wait abandons the fallback.
func (s *Service) GenerateWithFallback(ctx context.Context, description string) (GenerationOutcome, error) {
	prompt, err := s.Generate(ctx, description)
	if err == nil {
		return GenerationOutcome{Prompt: prompt}, nil
	}
	if !Recoverable(err) {
		return GenerationOutcome{}, err
	}

	timer := time.NewTimer(s.fallbackDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return GenerationOutcome{Err: err}, ctx.Err()
	case <-timer.C:
	}

	s.log.Info("applying demo fallback", "delay_ms", s.fallbackDelay.Milliseconds())
	return GenerationOutcome{
		Prompt:   s.ApplyDemoFallback(description),
		Fallback: true,
		Err:      err,
	}, nil
}
