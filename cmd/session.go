package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/content"
	"github.com/zhongchar/zhongchar/internal/prompt"
	"github.com/zhongchar/zhongchar/internal/session"
	"github.com/zhongchar/zhongchar/internal/ui/theme"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run a pass over the learning frame and show what to study next",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.RunSession(ctx, size)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			lipgloss.Fprintln(out, theme.Title.Render("Session "+res.ID))
			lipgloss.Fprintf(out, "%s %d  %s %d  %s %d  %s %d\n",
				theme.Label.Render("visited"), res.Summary.Visited,
				theme.DontKnow.Render("dontknow"), res.Summary.DontKnow,
				theme.Know.Render("know"), res.Summary.Know,
				theme.InstantRecall.Render("instant-recall"), res.Summary.InstantRecall,
			)
			lipgloss.Fprintf(out, "%s %d\n\n", theme.Label.Render("chunks"), len(res.Chunks))

			printNext(out, res.Next)
			return nil
		})
	},
}

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Show how the learning frame splits into chunks",
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			g, err := a.Graph(ctx)
			if err != nil {
				return err
			}
			frame := app.OverallFrame(g.Graph, size)
			chunks := frame.Chunks()
			out := cmd.OutOrStdout()

			lipgloss.Fprintf(out, "Frame of %d prompts, %d chunks (frames of %d or more split)\n",
				frame.Size, len(chunks), session.SplitThreshold)
			lipgloss.Fprintln(out, strings.Repeat("─", 40))
			for i, c := range chunks {
				lipgloss.Fprintf(out, "%3d  %s\n", i+1, renderChunk(g, c))
			}
			return nil
		})
	},
}

func init() {
	sessionCmd.Flags().Int("size", 0, "Limit the frame to the first N items (0 = all)")
	framesCmd.Flags().Int("size", 0, "Limit the frame to the first N items (0 = all)")
}

func renderChunk(g *content.Graph, f session.Frame) string {
	parts := make([]string, 0, len(f.Prompts))
	for _, idx := range f.Prompts {
		n, err := g.Node(idx)
		if err != nil {
			parts = append(parts, "?")
			continue
		}
		s := n.Prompt.ID()
		if r, ok := n.Prompt.(*prompt.RadicalForm); ok {
			s = string(r.Form())
		}
		parts = append(parts, theme.LevelStyle(n.Prompt.CurrentUnderstanding().Level).Render(s))
	}
	return strings.Join(parts, " ")
}

func printNext(out io.Writer, p *prompt.RadicalForm) {
	if p == nil {
		lipgloss.Fprintln(out, theme.Hint.Render("Every reachable radical is at instant recall."))
		return
	}
	card := fmt.Sprintf("%s\n%s %s\n%s %s",
		theme.Glyph.Render(string(p.Form())),
		theme.Label.Render("item"), p.ID(),
		theme.Label.Render("now"), theme.Understanding(p.CurrentUnderstanding()),
	)
	lipgloss.Fprintln(out, theme.Label.Render("Next up"))
	lipgloss.Fprintln(out, theme.Card.Render(card))
}
