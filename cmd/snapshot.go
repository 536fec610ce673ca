package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/ui/theme"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write your understanding of every item as a JSON snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if path == "" || path == "-" {
				return a.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := a.Export(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore {<file|-> | --latest}",
	Short: "Replace your understanding with a JSON snapshot",
	Long: `Restore validates a snapshot document written by export and replaces the
stored understanding with it. Items missing from the snapshot return to
dontknow. Nothing changes if the document is invalid.

With --latest the most recent stored snapshot is used instead. Reset and
restore snapshot the state they replace, so this undoes the last of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		latest, _ := cmd.Flags().GetBool("latest")
		if latest == (len(args) == 1) {
			return errors.New("give either a snapshot file or --latest")
		}

		var r io.Reader = cmd.InOrStdin()
		if !latest && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var (
				transitions []mastery.Transition
				err         error
			)
			if latest {
				transitions, err = a.RestoreLatest(ctx)
			} else {
				transitions, err = a.Restore(ctx, r)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range transitions {
				lipgloss.Fprintf(out, "%s: %s → %s\n", t.ItemID, theme.Understanding(t.From), theme.Understanding(t.To))
			}
			lipgloss.Fprintf(out, "Restored (%d changed)\n", len(transitions))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	restoreCmd.Flags().Bool("latest", false, "Restore the most recent stored snapshot")
}
