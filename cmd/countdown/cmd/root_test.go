package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCommand_AddThenList runs the commands end to end on a temporary data file.
func TestRootCommand_AddThenList(t *testing.T) {
	dir := t.TempDir()
	common := []string{
		"--config", filepath.Join(dir, "absent.yaml"),
		"--data-file", filepath.Join(dir, "timers.json"),
		"--log-level", "error",
	}

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs(append([]string{"add", "Trip to Berlin", "2030-12-31"}, common...))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "Trip to Berlin")

	out.Reset()
	rootCmd.SetArgs(append([]string{"list"}, common...))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "2030-12-31 00:00:00")

	rootCmd.SetArgs(append([]string{"add", "only-label"}, common...))
	require.Error(t, rootCmd.ExecuteContext(context.Background()))
}
