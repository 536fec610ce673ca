package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
)

var nextCmd = &cobra.Command{
	Use:   "next [item-id]",
	Short: "Show the radical to study next",
	Long: `Next searches the question graph breadth-first for the nearest radical
you do not know yet, falling back to one you know but cannot recall
instantly. With an item ID the search starts from that item; otherwise it
runs over the whole frame.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var from string
		if len(args) == 1 {
			from = args[0]
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, _, err := a.Next(ctx, from)
			if err != nil {
				return err
			}
			printNext(cmd.OutOrStdout(), p)
			return nil
		})
	},
}
