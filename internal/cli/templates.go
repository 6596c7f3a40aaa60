package cli

import (
	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Story template commands",
	}
	cmd.AddCommand(newTemplatesListCmd(app))
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List story templates with recommended pacing",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := app.studio().ListStoryTemplates(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": templates,
				"meta": map[string]any{"count": len(templates)},
			})
		},
	}
}
