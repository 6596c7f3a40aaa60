package cli

import (
	"github.com/spf13/cobra"
)

func newChaptersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Chapter commands",
	}
	cmd.AddCommand(newChaptersListCmd(app))
	return cmd
}

func newChaptersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapters, err := app.studio().ListChapters(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": chapters,
				"meta": map[string]any{"count": len(chapters)},
			})
		},
	}
}
