package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inkwell-cli/internal/api"
	"inkwell-cli/internal/config"
	"inkwell-cli/internal/format"
	"inkwell-cli/internal/store"
	"inkwell-cli/internal/tui"
)

type App struct {
	APIURL     string
	StateDir   string
	TimeoutSec int
	PrettyJSON bool
	Format     string

	cfg    config.Config
	cfgErr error
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	app := &App{cfg: cfg, cfgErr: cfgErr}

	cmd := &cobra.Command{
		Use:          "inkwell",
		Short:        "Inkwell novel studio CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  inkwell

  # Scriptable commands
  inkwell projects list

  # Create a project from a story template
  inkwell projects create --name "Night Ferry" --genre mystery --style noir --template three_act

  # Direct project lookup (shortcut for: inkwell projects show <project-id>)
  inkwell 0b54a4e8-6f3c-4a2e-9a51-8ab84f6c9d21
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("INKWELL_API_URL", cfg.APIBaseURL), "Studio backend base URL")
	cmd.PersistentFlags().StringVar(&app.StateDir, "state-dir", envOr("INKWELL_STATE_DIR", cfg.StateDir), "Directory for drafts, history and UI state (default: ~/.inkwell)")
	cmd.PersistentFlags().IntVar(&app.TimeoutSec, "timeout", cfg.RequestTimeoutSeconds, "Backend request timeout in seconds")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("INKWELL_FORMAT", cfg.Format), "Output format (json|yaml)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newChaptersCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newMetricsCmd(app))
	cmd.AddCommand(newDraftsCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newRecentCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, err := app.store()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Studio: app.studio(),
		Store:  st,
		TUI:    app.cfg.TUI,
	})
}

// studio returns the backend client, built once per invocation.
func (app *App) studio() *api.Client {
	if app.client == nil {
		app.client = api.NewWithTimeout(app.APIURL, time.Duration(app.TimeoutSec)*time.Second)
	}
	return app.client
}

func (app *App) store() (store.Store, error) {
	dir := strings.TrimSpace(app.StateDir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
