package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long: `Reset returns every item to dontknow. The current state is saved as a
snapshot first and imported items are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("reset discards your understanding of every item; rerun with --yes")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			transitions, err := a.Reset(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d items to dontknow\n", len(transitions))
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
