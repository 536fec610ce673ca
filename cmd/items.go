package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/content"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List imported items with their understanding",
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			items, err := a.Items(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asYAML {
				radicals, err := a.Radicals(ctx)
				if err != nil {
					return err
				}
				b, err := content.Marshal(content.Document{Items: items, Radicals: radicals})
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(out, "No items imported.")
				return nil
			}

			fmt.Fprintf(out, "%-10s  %-4s  %5s  %-20s  %-10s  %s\n",
				"ID", "Form", "Rad#", "Meaning", "Follows", "Understanding")
			fmt.Fprintln(out, strings.Repeat("─", 78))

			for _, it := range items {
				meaning := it.Meaning
				if len(meaning) > 20 {
					meaning = meaning[:17] + "..."
				}
				fmt.Fprintf(out, "%-10s  %-4s  %5d  %-20s  %-10s  %s\n",
					it.ID, it.Form, it.RadicalNumber, meaning,
					strings.Join(it.Follows, ","), a.Ledger().Get(it.ID))
			}

			fmt.Fprintf(out, "\n%d items\n", len(items))
			return nil
		})
	},
}

func init() {
	itemsCmd.Flags().Bool("yaml", false, "Print items and radicals as a YAML content document")
}
