package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell-cli/internal/state"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.studio().ListProjects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": projects,
				"meta": map[string]any{"count": len(projects)},
			})
		},
	}
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.studio().GetProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{
				fmt.Sprintf("inkwell chapters list %s", detail.ID),
				fmt.Sprintf("inkwell metrics --project %s", detail.ID),
			}
			return writeOut(cmd, app, map[string]any{
				"data":   detail,
				"_hints": hints,
			})
		},
	}
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var form state.CreateProjectForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := form.Input()
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := app.studio().CreateProject(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&form.Genre, "genre", "", "Genre (e.g. mystery, scifi)")
	cmd.Flags().StringVar(&form.Style, "style", "", "Narrative style (e.g. noir, lyrical)")
	cmd.Flags().StringVar(&form.TemplateID, "template", "", "Story template id (see: inkwell templates list)")
	cmd.Flags().IntVar(&form.TargetLength, "target-length", 0, "Target length in characters (0 = default or template recommendation)")
	cmd.Flags().StringVar(&form.Taboos, "taboos", "", "Comma-separated taboo constraints")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("genre")
	_ = cmd.MarkFlagRequired("style")
	return cmd
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <project-id>...",
		Short: "Delete one or more projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errNeedsConfirm(len(args)))
			}
			// The cache path carries the delete fallback chain, so scripted
			// deletes behave exactly like TUI deletes.
			cache := state.NewProjectCache(app.studio())
			res, err := cache.DeleteProjects(cmd.Context(), args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": map[string]any{
					"deleted": res.DeletedCount,
					"missing": res.MissingCount,
					"failed":  res.FailedCount,
				},
			}); err != nil {
				return err
			}
			if res.FailedCount > 0 {
				return fmt.Errorf("%d deletion(s) failed", res.FailedCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
