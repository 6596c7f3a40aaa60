package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"inkwell-cli/internal/export"
	"inkwell-cli/internal/model"
	"inkwell-cli/internal/state"
)

func newDraftsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Locally saved draft commands",
	}
	cmd.AddCommand(newDraftsListCmd(app))
	cmd.AddCommand(newDraftsShowCmd(app))
	cmd.AddCommand(newDraftsDiscardCmd(app))
	cmd.AddCommand(newDraftsExportCmd(app))
	return cmd
}

func newDraftsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved drafts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			keys, err := st.Keys(cmd.Context(), state.DraftKeyPrefix)
			if err != nil {
				return writeErr(cmd, err)
			}
			names := make([]string, 0, len(keys))
			for _, k := range keys {
				names = append(names, strings.TrimPrefix(k, state.DraftKeyPrefix))
			}
			return writeOut(cmd, app, map[string]any{
				"data": names,
				"meta": map[string]any{"count": len(names)},
			})
		},
	}
}

func newDraftsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-key>",
		Short: "Show one saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			var draft model.Draft
			ok, err := st.Get(cmd.Context(), state.DraftKey(args[0]), &draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("draft", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": draft})
		},
	}
}

func newDraftsExportCmd(app *App) *cobra.Command {
	var toDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export [draft-key...]",
		Short: "Export saved drafts as Markdown files (all drafts when no keys given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := export.WriteDrafts(cmd.Context(), st, toDir, args, export.Options{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&toDir, "to", "", "Directory to export into")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}

func newDraftsDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <draft-key>",
		Short: "Discard one saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.Delete(cmd.Context(), state.DraftKey(args[0])); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"discarded": args[0]},
			})
		},
	}
}
