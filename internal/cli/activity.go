package cli

import (
	"github.com/spf13/cobra"

	"inkwell-cli/internal/state"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Operation history commands",
	}
	cmd.AddCommand(newActivityListCmd(app))
	cmd.AddCommand(newActivityClearCmd(app))
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded operations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			recs := state.NewActivityLog(cmd.Context(), st).Records()
			return writeOut(cmd, app, map[string]any{
				"data": recs,
				"meta": map[string]any{"count": len(recs)},
			})
		},
	}
}

func newActivityClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the operation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			state.NewActivityLog(cmd.Context(), st).Clear(cmd.Context())
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"cleared": true},
			})
		},
	}
}
