package cmd

import (
	"context"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/ui/components"
	"github.com/zhongchar/zhongchar/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			st, err := a.Stats(ctx, recent)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			lipgloss.Fprintln(out, theme.Title.Render("Radicals"))
			lipgloss.Fprintln(out, components.NewLevelBar("", st.ByLevel, 40).View())
			for _, l := range []mastery.Level{mastery.DontKnow, mastery.Know, mastery.InstantRecall} {
				lipgloss.Fprintf(out, "  %s %d\n", theme.LevelStyle(l).Width(16).Render(l.String()), st.ByLevel[l])
			}
			lipgloss.Fprintf(out, "  %s %d\n\n", theme.Label.Width(16).Render("total"), st.Items)

			if len(st.Sessions) == 0 {
				lipgloss.Fprintln(out, theme.Hint.Render("No sessions yet."))
				return nil
			}

			lipgloss.Fprintln(out, theme.Title.Render("Recent sessions"))
			lipgloss.Fprintf(out, "%-19s  %5s  %6s  %8s  %4s  %6s\n",
				"Time", "Frame", "Chunks", "DontKnow", "Know", "Recall")
			lipgloss.Fprintln(out, strings.Repeat("─", 56))
			for _, s := range st.Sessions {
				lipgloss.Fprintf(out, "%-19s  %5d  %6d  %8d  %4d  %6d\n",
					s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					s.FrameSize, s.Chunks, s.DontKnow, s.Know, s.InstantRecall)
			}
			return nil
		})
	},
}

func init() {
	statsCmd.Flags().Int("recent", 5, "Number of recent sessions to show")
}
