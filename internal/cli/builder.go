package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-builder/internal/commands"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
	"github.com/dpshade/prompt-builder/internal/renderer"
	"github.com/dpshade/prompt-builder/internal/service"
	"github.com/dpshade/prompt-builder/internal/storage"
)

type composeFlags struct {
	userContext string
	context     string
	instruction string
	template    string
	constraints []string
	guidelines  []string
	format      string
	render      bool
	analyze     bool
	copy        bool
	output      string
	saveDir     string
	name        string
}

func newComposeCommand(app *App) *cobra.Command {
	var f composeFlags

	cmd := &cobra.Command{
		Use:   "compose [instruction...]",
		Short: "Compose the final prompt from its parts",
		Example: `  prompt-builder compose "Explain black holes" --user-context "curious teenager" \
      --constraint length="300 words" --constraint audience=beginners \
      --guideline "Use one analogy" --analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && f.instruction == "" {
				f.instruction = strings.Join(args, " ")
			}
			draft, err := buildDraft(f)
			if err != nil {
				return err
			}

			result, err := app.run(cmd.Context(), app.executor(nil), commands.CommandCompose, map[string]interface{}{
				"draft":    draft,
				"template": f.template,
				"format":   f.format,
			})
			if err != nil {
				return err
			}
			data := result.Data.(commands.ComposeResult)

			if err := app.printComposed(data, f); err != nil {
				return err
			}
			if f.analyze {
				app.printAnalysis(data.Analysis)
			}
			return app.composeSideEffects(draft, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.userContext, "user-context", "u", "", "who the prompt is for")
	flags.StringVarP(&f.context, "context", "x", "", "background context")
	flags.StringVarP(&f.instruction, "instruction", "i", "", "main instruction (default: the positional arguments)")
	flags.StringVarP(&f.template, "template", "t", "", "template whose example fills an empty instruction")
	flags.StringArrayVar(&f.constraints, "constraint", nil, "constraint as kind=value, repeatable (kinds: length, format, audience, style, scope, ethical)")
	flags.StringArrayVarP(&f.guidelines, "guideline", "g", nil, "additional guideline, repeatable")
	flags.StringVarP(&f.format, "format", "f", "text", "output format: text, json or markdown")
	flags.BoolVar(&f.render, "render", false, "render markdown output for the terminal")
	flags.BoolVarP(&f.analyze, "analyze", "a", false, "print the analysis to stderr")
	flags.BoolVar(&f.copy, "copy", false, "copy the prompt to the clipboard")
	flags.StringVarP(&f.output, "output", "o", "", "write the prompt to a file (use "+storage.DefaultExportName+" for the usual name)")
	flags.StringVar(&f.saveDir, "save-dir", "", "save the prompt as a markdown file with frontmatter in this directory")
	flags.StringVar(&f.name, "name", "", "name of the saved prompt (default \"Prompt N\")")
	return cmd
}

// buildDraft turns compose flags into a draft. Unknown constraint kinds are
// contract violations.
func buildDraft(f composeFlags) (models.PromptDraft, error) {
	draft := models.PromptDraft{
		UserContext:       f.userContext,
		BackgroundContext: f.context,
		MainInstruction:   f.instruction,
	}
	for _, raw := range f.constraints {
		kindText, value, ok := strings.Cut(raw, "=")
		if !ok {
			return models.PromptDraft{}, apperrors.ValidationError(fmt.Sprintf("constraint %q must look like kind=value", raw))
		}
		kind, err := models.ParseConstraintKind(kindText)
		if err != nil {
			return models.PromptDraft{}, err
		}
		c, err := models.NewConstraint(kind, value)
		if err != nil {
			return models.PromptDraft{}, err
		}
		draft.Constraints = append(draft.Constraints, c)
	}
	for _, text := range f.guidelines {
		draft.Guidelines = append(draft.Guidelines, models.NewGuideline(text))
	}
	return draft, nil
}

func (a *App) printComposed(data commands.ComposeResult, f composeFlags) error {
	out := data.Prompt
	if data.Rendered != "" {
		out = data.Rendered
	}
	if f.render && f.format == string(renderer.FormatMarkdown) {
		out = renderer.RenderTerminal(out, 80)
	}
	if strings.TrimSpace(out) == "" {
		fmt.Fprintln(a.Err, "Nothing to compose yet: every part of the draft is empty.")
		return nil
	}
	_, err := fmt.Fprintln(a.Out, strings.TrimRight(out, "\n"))
	return err
}

func (a *App) printAnalysis(analysis *models.AnalysisResult) {
	if analysis == nil {
		return
	}
	fmt.Fprintln(a.Err, "Analysis:")
	for _, s := range analysis.Strengths {
		fmt.Fprintf(a.Err, "  ✓ %s\n", s)
	}
	for _, issue := range analysis.Issues {
		fmt.Fprintf(a.Err, "  ⚠ %s\n", issue)
	}
}

// composeSideEffects copies, exports and saves through a session holding draft
func (a *App) composeSideEffects(draft models.PromptDraft, f composeFlags) error {
	if !f.copy && f.output == "" && f.saveDir == "" {
		return nil
	}

	svc := service.NewService(service.Options{Copier: a.copier, Logger: a.log})
	if err := svc.SetDraft(draft); err != nil {
		return err
	}
	if f.template != "" && strings.TrimSpace(draft.MainInstruction) == "" {
		key, err := models.ParseTemplateKey(f.template)
		if err != nil {
			return err
		}
		if err := svc.LoadTemplate(key); err != nil {
			return err
		}
	}

	if f.copy {
		msg, err := svc.Copy()
		if err != nil {
			fmt.Fprintln(a.Err, a.errors.FormatError(err))
		} else {
			fmt.Fprintln(a.Err, msg)
		}
	}
	if f.output != "" {
		if err := svc.Export(f.output); err != nil {
			return err
		}
		fmt.Fprintf(a.Err, "Saved to %s\n", f.output)
	}
	if f.saveDir != "" {
		if _, err := svc.Save(f.name); err != nil {
			return err
		}
		paths, err := svc.ExportSaved(f.saveDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(a.Err, "Saved prompt to %s\n", p)
		}
	}
	return nil
}

func newAnalyzeCommand(app *App) *cobra.Command {
	var file, format string

	cmd := &cobra.Command{
		Use:   "analyze [prompt...]",
		Short: "Report strengths and issues of a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if file != "" {
				saved, err := storage.ReadPromptFile(file)
				if err != nil {
					return err
				}
				prompt = saved.Content
			}

			result, err := app.run(cmd.Context(), app.executor(nil), commands.CommandAnalyze, map[string]interface{}{
				"prompt": prompt,
			})
			if err != nil {
				return err
			}
			analysis := result.Data.(commands.AnalyzeResult).Analysis

			if format == string(renderer.FormatJSON) {
				return app.printJSON(result.Data)
			}
			if analysis == nil {
				fmt.Fprintln(app.Out, "Nothing to analyze: the prompt is blank.")
				return nil
			}
			for _, s := range analysis.Strengths {
				fmt.Fprintf(app.Out, "✓ %s\n", s)
			}
			for _, issue := range analysis.Issues {
				fmt.Fprintf(app.Out, "⚠ %s\n", issue)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read the prompt from a text or saved markdown file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}
