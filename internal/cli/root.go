// Package cli implements the prompt-builder command line.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the process entry surface. It loads configuration, builds the logger
// and the generator, and dispatches to the TUI, the HTTP server or one of the headless
// commands. Headless commands run through the unified command layer.
//
// INTEGRATION POINTS:
// - main.go: calls Execute with the build version
// - internal/config/config.go: Load runs before every command
// - internal/commands/types.go: compose, analyze, generate, templates, kinds and health
// - internal/api/server.go: serve runs the HTTP server
// - internal/ui/model.go: the root command starts the TUI
// - internal/errors/handlers.go: CLIErrorHandler formats failures for the terminal
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpshade/prompt-builder/internal/clipboard"
	"github.com/dpshade/prompt-builder/internal/config"
	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/logger"
	"github.com/dpshade/prompt-builder/internal/ui"
)

// App carries what every command needs once configuration is loaded
type App struct {
	Version string
	In      io.Reader
	Out     io.Writer
	Err     io.Writer

	cfgFile string
	envFile string
	verbose bool
	local   bool

	cfg    *config.Config
	log    *logger.Logger
	errors *apperrors.CLIErrorHandler

	// copier and runTUI are replaced in tests
	copier clipboard.Copier
	runTUI func(ctx context.Context, opts ui.Options) error
}

// NewApp creates an App bound to the process streams
func NewApp(version string) *App {
	return &App{
		Version: version,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		copier:  clipboard.System{},
		runTUI:  ui.Run,
	}
}

// Execute runs the root command and returns the process exit code
func Execute(version string) int {
	app := NewApp(version)
	root := NewRootCommand(app)
	if err := root.Execute(); err != nil {
		handler := app.errors
		if handler == nil {
			handler = apperrors.NewCLIErrorHandler(app.verbose, nil)
		}
		fmt.Fprintln(app.Err, handler.FormatError(err))
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "prompt-builder",
		Short: "Build, analyze and generate prompts for large language models",
		Long: `prompt-builder composes a final prompt from user context, background context,
a main instruction, typed constraints and free-form guidelines. It lints the result
with a quick heuristic analysis and can ask a language model to write the main
instruction from a short description.

Run without a command to open the interactive builder.`,
		Version:       app.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				app.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInteractive(cmd.Context())
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	flags := root.PersistentFlags()
	flags.StringVarP(&app.cfgFile, "config", "c", "", "config file (default is ./prompt-builder.yaml or $HOME/prompt-builder.yaml)")
	flags.StringVar(&app.envFile, "env-file", "", "dotenv file to load (default is .env)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output and logging")
	root.Flags().BoolVar(&app.local, "local", false, "generate in-process instead of calling the API server")

	root.AddCommand(
		newServeCommand(app),
		newComposeCommand(app),
		newAnalyzeCommand(app),
		newGenerateCommand(app),
		newTemplatesCommand(app),
		newKindsCommand(app),
		newHealthCommand(app),
		newVersionCommand(app),
	)
	return root
}

// init loads configuration and builds the logger. serve and --verbose log to
// stderr, the TUI logs to log.file when one is set, everything else is quiet.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{ConfigFile: a.cfgFile, EnvFile: a.envFile})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Could not load configuration").WithDetails(err.Error())
	}
	a.cfg = cfg

	switch {
	case a.verbose || cmd.Name() == "serve":
		a.log, err = logger.New(cfg.Log.Mode)
	case cfg.Log.File != "":
		a.log, err = logger.NewWithOutput(cfg.Log.Mode, []string{cfg.Log.File})
	default:
		a.log = logger.NewNop()
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "Could not create logger").WithDetails(err.Error())
	}

	a.errors = apperrors.NewCLIErrorHandler(a.verbose, a.log)
	return nil
}

func (a *App) runInteractive(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gen, err := a.clientGenerator(ctx, a.local)
	if err != nil {
		return err
	}
	return a.runTUI(ctx, ui.Options{
		Generator:     gen,
		FallbackDelay: a.cfg.Client.FallbackDelay,
		Copier:        a.copier,
		Logger:        a.log,
	})
}
