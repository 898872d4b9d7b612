package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dpshade/prompt-builder/internal/client"
	"github.com/dpshade/prompt-builder/internal/commands"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/llm"
	"github.com/dpshade/prompt-builder/internal/relay"
	"github.com/dpshade/prompt-builder/internal/service"
)

// newRelay builds the in-process relay. Without a provider credential the relay
// answers from its fallback template.
func (a *App) newRelay(ctx context.Context) (*relay.Relay, error) {
	provider, err := llm.ValidateProvider(a.cfg.LLM.Provider)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Unsupported provider").WithDetails(err.Error())
	}

	temperature := a.cfg.LLM.Temperature
	opts := relay.Options{Temperature: &temperature, Timeout: a.cfg.LLM.Timeout}
	lc := llm.Config{
		Provider:  provider,
		Model:     a.cfg.LLM.Model,
		APIKey:    a.cfg.LLM.APIKey,
		BaseURL:   a.cfg.LLM.BaseURL,
		Timeout:   a.cfg.LLM.Timeout,
		MaxTokens: a.cfg.LLM.MaxTokens,
	}
	if !lc.HasCredentials() {
		a.log.Info("no provider credential configured, using the fallback template", "provider", provider)
		return relay.New(nil, opts, a.log), nil
	}

	chatModel, err := llm.NewChatModel(ctx, lc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Could not create chat model").WithDetails(err.Error())
	}
	a.log.Info("chat model ready", "provider", provider, "model", lc.Model)
	return relay.New(chatModel, opts, a.log), nil
}

// clientGenerator returns the generator used by interactive and client-side
// commands: the in-process relay when local is set, the API client otherwise.
func (a *App) clientGenerator(ctx context.Context, local bool) (service.Generator, error) {
	if local {
		return a.newRelay(ctx)
	}
	return client.New(a.cfg.Client.APIURL, a.cfg.Client.Timeout), nil
}

func (a *App) executor(gen service.Generator) *commands.CommandExecutor {
	return commands.NewCommandExecutor(commands.Options{
		Generator:     gen,
		FallbackDelay: a.cfg.Client.FallbackDelay,
		Logger:        a.log,
	})
}

// run executes a command and converts a failed result into an error
func (a *App) run(ctx context.Context, exec *commands.CommandExecutor, name string, params map[string]interface{}) (*commands.CommandResult, error) {
	result, err := exec.Execute(ctx, name, params)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, result.Err()
	}
	return result, nil
}

func (a *App) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Could not encode output")
	}
	_, err = fmt.Fprintln(a.Out, string(data))
	return err
}
