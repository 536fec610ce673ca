package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const radicalsFile = "../internal/content/testdata/radicals.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommands_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ZHONGCHAR_DB", "")
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("metrics-file", "") })
	db := filepath.Join(dir, "data", "zhongchar.db")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zhongchar (devel)")

	out, err = execute(t, "--db", db, "import", radicalsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 8 items (8 newly tracked)")
	assert.Contains(t, out, "Imported 6 radical records")

	out, err = execute(t, "--db", db, "items")
	require.NoError(t, err)
	assert.Contains(t, out, "r085b")
	assert.Contains(t, out, "8 items")

	out, err = execute(t, "--db", db, "mark", "r001", "know")
	require.NoError(t, err)
	assert.Contains(t, out, "r001")

	out, err = execute(t, "--db", db, "next")
	require.NoError(t, err)
	assert.Contains(t, out, "r007")

	out, err = execute(t, "--db", db, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "visited 8")

	out, err = execute(t, "--db", db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Recent sessions")

	snap := filepath.Join(dir, "snap.json")
	_, err = execute(t, "--db", db, "export", "-o", snap)
	require.NoError(t, err)
	b, err := os.ReadFile(snap)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"r001"`)

	_, err = execute(t, "--db", db, "mark", "r002", "instant-recall", "--excluded", "6", "--streak", "1")
	require.NoError(t, err)

	out, err = execute(t, "--db", db, "restore", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored (1 changed)")

	out, err = execute(t, "--db", db, "history", "r002")
	require.NoError(t, err)
	assert.Contains(t, out, "instant-recall(6, 1)")
	assert.Contains(t, out, "restore")

	_, err = execute(t, "--db", db, "reset")
	assert.Error(t, err)

	metricsFile := filepath.Join(dir, "zhongchar.prom")
	out, err = execute(t, "--db", db, "--metrics-file", metricsFile, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset 1 items")

	b, err = os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `zhongchar_mastery_changes_total{trigger="reset"} 1`)

	_, err = execute(t, "--db", db, "restore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either a snapshot file or --latest")

	out, err = execute(t, "--db", db, "restore", "--latest")
	require.NoError(t, err)
	assert.Contains(t, out, "r001")
	assert.Contains(t, out, "Restored (1 changed)")

	_, err = execute(t, "--db", db, "restore", snap, "--latest")
	assert.Error(t, err)

	out, err = execute(t, "--db", db, "items", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "radicals:")
	assert.Contains(t, out, "han_viet: nhất")
	assert.Contains(t, out, "colloquial_term: 三点水")
	assert.Contains(t, out, "- 氵")
}

func TestLogLevelFlagIgnoresCase(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("log-level", "") })
	db := filepath.Join(t.TempDir(), "zhongchar.db")

	_, err := execute(t, "--db", db, "--log-level", "DEBUG", "stats")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = execute(t, "--db", db, "--log-level", "LOUD", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestMark_RejectsPayloadForOtherLevels(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	db := filepath.Join(t.TempDir(), "zhongchar.db")

	_, err := execute(t, "--db", db, "mark", "r001", "know", "--streak", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only apply to instant-recall")

	_, err = execute(t, "--db", db, "mark", "r001", "fluent")
	assert.Error(t, err)
}
