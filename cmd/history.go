package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
)

var historyCmd = &cobra.Command{
	Use:   "history <item-id>",
	Short: "Show how your understanding of an item changed over time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			events, err := a.History(ctx, args[0])
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()

			if len(events) == 0 {
				fmt.Fprintf(out, "No changes recorded for %s.\n", args[0])
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-22s  %s\n",
				"Seq", "Timestamp", "Trigger", "From", "To")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, e := range events {
				fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-22s  %s\n",
					e.Sequence,
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Reason,
					e.FromLevel,
					e.ToLevel,
				)
			}
			return nil
		})
	},
}
