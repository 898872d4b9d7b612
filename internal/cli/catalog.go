package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-builder/internal/client"
	"github.com/dpshade/prompt-builder/internal/commands"
	"github.com/dpshade/prompt-builder/internal/models"
)

func newTemplatesCommand(app *App) *cobra.Command {
	var search, format string

	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "List the prompt templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.run(cmd.Context(), app.executor(nil), commands.CommandListTemplates, map[string]interface{}{
				"search": search,
			})
			if err != nil {
				return err
			}
			templates := result.Data.([]models.Template)

			if format == "json" {
				return app.printJSON(templates)
			}
			if len(templates) == 0 {
				fmt.Fprintln(app.Out, "No templates match.")
				return nil
			}
			for _, t := range templates {
				fmt.Fprintf(app.Out, "%s - %s\n", t.Key, t.DisplayName)
				fmt.Fprintf(app.Out, "  %s\n", t.Shape)
				fmt.Fprintf(app.Out, "  Example: %s\n\n", t.Example)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy filter on name and key")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func newKindsCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the constraint kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.run(cmd.Context(), app.executor(nil), commands.CommandListConstraintKinds, nil)
			if err != nil {
				return err
			}
			infos := result.Data.([]commands.ConstraintKindInfo)

			if format == "json" {
				return app.printJSON(infos)
			}
			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tLABEL\tEXAMPLE")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Kind, info.Label, info.Placeholder)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func newHealthCommand(app *App) *cobra.Command {
	var useServer bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check generator status, or the API server with --server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useServer {
				c := client.New(app.cfg.Client.APIURL, app.cfg.Client.Timeout)
				if err := c.Health(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "ok: %s is healthy\n", app.cfg.Client.APIURL)
				return nil
			}

			gen, err := app.newRelay(cmd.Context())
			if err != nil {
				return err
			}
			result, err := app.run(cmd.Context(), app.executor(gen), commands.CommandHealth, nil)
			if err != nil {
				return err
			}
			health := result.Data.(commands.HealthResult)
			mode := "fallback template (no provider credential)"
			if health.Upstream {
				mode = fmt.Sprintf("%s (%s)", app.cfg.LLM.Provider, app.cfg.LLM.Model)
			}
			fmt.Fprintf(app.Out, "ok: generator %s\n", mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useServer, "server", false, "check the API server at client.api_url")
	return cmd
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(app.Out, "prompt-builder %s\n", app.Version)
		},
	}
}
