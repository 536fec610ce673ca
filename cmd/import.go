package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/content"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import radical items from a YAML content file",
	Long: `Import reads a YAML content file, checks that its follows links form an
acyclic graph, and stores the items. Newly seen items start as dontknow;
items already tracked keep their understanding.

Without a file argument the configured content_path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.ContentPath
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no content file given and content_path is not configured")
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Import(ctx, content.FileProvider{Path: path})
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items (%d newly tracked)\n", res.Items, res.Seeded)
			if res.Radicals > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d radical records\n", res.Radicals)
			}
			return nil
		})
	},
}
