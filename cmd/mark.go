package cmd

import (
	"context"
	"errors"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/ui/theme"
)

var markCmd = &cobra.Command{
	Use:   "mark <item-id> <level>",
	Short: "Record your understanding of an item",
	Long: `Mark records how well you know one radical. Level is one of dontknow,
know or instant-recall. For instant-recall, --excluded and --streak set the
recall payload.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := mastery.ParseLevel(args[1])
		if err != nil {
			return err
		}
		excluded, _ := cmd.Flags().GetInt("excluded")
		streak, _ := cmd.Flags().GetInt("streak")

		var u mastery.Understanding
		switch level {
		case mastery.InstantRecall:
			if excluded < 0 || streak < 0 {
				return errors.New("--excluded and --streak must not be negative")
			}
			u = mastery.InstantRecallState(excluded, streak)
		case mastery.Know:
			u = mastery.KnowState()
		default:
			u = mastery.DontKnowState()
		}
		if level != mastery.InstantRecall && (cmd.Flags().Changed("excluded") || cmd.Flags().Changed("streak")) {
			return errors.New("--excluded and --streak only apply to instant-recall")
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			t, err := a.Mark(ctx, args[0], u)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !t.Changed() {
				lipgloss.Fprintf(out, "%s unchanged: %s\n", t.ItemID, theme.Understanding(t.To))
				return nil
			}
			lipgloss.Fprintf(out, "%s: %s → %s\n", t.ItemID, theme.Understanding(t.From), theme.Understanding(t.To))
			return nil
		})
	},
}

func init() {
	markCmd.Flags().Int("excluded", 0, "Frame size the item is excluded from (instant-recall only)")
	markCmd.Flags().Int("streak", 0, "Consecutive correct answers (instant-recall only)")
}
