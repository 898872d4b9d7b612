package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-builder/internal/commands"
	"github.com/dpshade/prompt-builder/internal/service"
)

func newGenerateCommand(app *App) *cobra.Command {
	var (
		userContext       string
		additionalContext string
		useServer         bool
		fallback          bool
		format            string
	)

	cmd := &cobra.Command{
		Use:   "generate <description...>",
		Short: "Ask a language model to write one ready-to-use prompt",
		Long: `generate sends a short description to the configured provider and prints the
prompt it writes. Without a provider credential a fixed template is printed instead.
With --server the request goes to the API server at client.api_url.
With --fallback a failed generation prints the offline demo prompt after
client.fallback_delay.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var gen service.Generator
			var err error
			if useServer {
				gen, err = app.clientGenerator(cmd.Context(), false)
			} else {
				gen, err = app.newRelay(cmd.Context())
			}
			if err != nil {
				return err
			}

			result, err := app.run(cmd.Context(), app.executor(gen), commands.CommandGenerate, map[string]interface{}{
				"description":       strings.Join(args, " "),
				"userContext":       userContext,
				"additionalContext": additionalContext,
				"fallback":          fallback,
			})
			if err != nil {
				return err
			}

			if result.Message != "" {
				fmt.Fprintf(app.Err, "⚠️  %s\n", result.Message)
			}
			if format == "json" {
				return app.printJSON(result.Data)
			}
			_, err = fmt.Fprintln(app.Out, result.Data.(commands.GenerateResult).Prompt)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&userContext, "user-context", "u", "", "who the prompt is for")
	flags.StringVarP(&additionalContext, "context", "x", "", "additional context")
	flags.BoolVar(&useServer, "server", false, "call the API server instead of the provider")
	flags.BoolVar(&fallback, "fallback", false, "print the demo prompt when generation fails")
	flags.StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}
