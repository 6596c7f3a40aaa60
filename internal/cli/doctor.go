package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"inkwell-cli/internal/config"
)

var errDoctorIssuesFound = errors.New("doctor found issues")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the backend connection, local state and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var issues []string
			report := map[string]any{}

			cfgPath, _ := config.Path()
			report["config"] = map[string]any{"path": cfgPath}
			if app.cfgErr != nil {
				issues = append(issues, fmt.Sprintf("config: %v", app.cfgErr))
			}

			st, err := app.store()
			if err != nil {
				issues = append(issues, fmt.Sprintf("state dir: %v", err))
			} else {
				report["state_dir"] = st.Dir
				// Probe a real write so permission and disk problems show
				// up here instead of as silently lost drafts.
				probe := map[string]any{"probe": true}
				if err := st.Put(ctx, "doctor-probe", probe); err != nil {
					issues = append(issues, fmt.Sprintf("state dir not writable: %v", err))
				} else {
					_ = st.Delete(ctx, "doctor-probe")
				}
			}

			backend := map[string]any{"url": app.APIURL}
			if h, err := app.studio().Health(ctx); err != nil {
				issues = append(issues, fmt.Sprintf("backend: %v", err))
			} else {
				backend["status"] = h.Status
				backend["projects"] = h.Projects
				backend["chapters"] = h.Chapters
			}
			report["backend"] = backend
			report["issues"] = issues

			meta := map[string]any{
				"issues":    len(issues),
				"hasErrors": len(issues) > 0,
			}
			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": meta,
			}); err != nil {
				return err
			}

			if fail && len(issues) > 0 {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if issues are found")
	return cmd
}
