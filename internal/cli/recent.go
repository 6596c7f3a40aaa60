package cli

import (
	"github.com/spf13/cobra"

	"inkwell-cli/internal/state"
)

func newRecentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Recently opened projects and chapters",
	}
	cmd.AddCommand(newRecentListCmd(app))
	cmd.AddCommand(newRecentClearCmd(app))
	return cmd
}

func newRecentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recently opened items, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			items := state.NewRecentList(cmd.Context(), st).Items()
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"count": len(items)},
			})
		},
	}
}

func newRecentClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the recently opened list",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			state.NewRecentList(cmd.Context(), st).Clear(cmd.Context())
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"cleared": true},
			})
		},
	}
}
