//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
)

// TestLoadSettings_MissingFileUsesDefaults returns defaults when no settings file exists.
func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"), Overrides{})
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

// TestLoadSettings_Overrides applies command-line values over the file.
func TestLoadSettings_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, &config.Config{
		Backend:  config.BackendFile,
		DataFile: "custom.json",
		LogLevel: "info",
	}))

	cfg, err := LoadSettings(path, Overrides{Backend: config.BackendSQLite, ServerAddress: "127.0.0.1:6000"})
	require.NoError(t, err)
	require.Equal(t, config.BackendSQLite, cfg.Backend)
	require.Equal(t, config.DefaultSQLiteFilename, cfg.DataFile)
	require.Equal(t, "127.0.0.1:6000", cfg.ServerAddress)

	cfg, err = LoadSettings(path, Overrides{DataFile: "other.json"})
	require.NoError(t, err)
	require.Equal(t, "other.json", cfg.DataFile)
}

// TestLoadSettings_Rejects reports invalid settings and log levels.
func TestLoadSettings_Rejects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadSettings(filepath.Join(dir, "absent.yaml"), Overrides{LogLevel: "chatty"})
	require.ErrorIs(t, err, errUnknownLogLevel)

	_, err = LoadSettings(filepath.Join(dir, "absent.yaml"), Overrides{Backend: "redis"})
	require.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("timeout: [oops"), config.DefaultFilePermissions))

	_, err = LoadSettings(broken, Overrides{})
	require.Error(t, err)
}

// TestOpenStore_PersistsAcrossOpens writes through one store and reads it from another.
func TestOpenStore_PersistsAcrossOpens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := config.Default()
	cfg.DataFile = filepath.Join(t.TempDir(), "timers.json")

	first, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.True(t, first.Loaded())

	added, err := first.Add(ctx, "Trip to Berlin", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenStore(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, second.Close())
	})

	snapshot := second.Snapshot()
	require.Len(t, snapshot, 1)
	require.True(t, added.Equal(snapshot[0]))
}
