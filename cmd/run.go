package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zhongchar/zhongchar/internal/app"
	"github.com/zhongchar/zhongchar/internal/store"
)

// withApp opens the store, loads the learner state, and runs fn against it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	slog.Debug("store opened", slog.String("path", dbPath))

	a, err := app.Open(ctx, app.Options{
		Store:         st,
		Logger:        slog.Default(),
		Metrics:       met,
		SnapshotsKeep: cfg.SnapshotsKeep,
	})
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
