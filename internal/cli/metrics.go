package cli

import (
	"github.com/spf13/cobra"
)

func newMetricsCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show writing metrics (optionally scoped to one project)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.studio().GetMetrics(cmd.Context(), projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": m})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Limit metrics to one project")
	return cmd
}
