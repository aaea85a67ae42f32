//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/repository/kv"
	"github.com/shoaibubaid/COUNTDOWN/internal/service/store"
)

// Overrides holds command-line values that take precedence over the settings file.
type Overrides struct {
	// Backend replaces the configured storage backend.
	Backend string
	// DataFile replaces the configured data file.
	DataFile string
	// ServerAddress replaces the configured daemon address.
	ServerAddress string
	// LogLevel replaces the configured log level.
	LogLevel string
}

// LoadSettings reads the settings file, falling back to defaults when it is
// missing, applies overrides and adjusts the shared logger level.
func LoadSettings(path string, overrides Overrides) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if overrides.Backend != "" && overrides.Backend != cfg.Backend {
		cfg.Backend = overrides.Backend
		// Let Validate pick the new backend's default file.
		cfg.DataFile = ""
	}

	if overrides.DataFile != "" {
		cfg.DataFile = overrides.DataFile
	}

	if overrides.ServerAddress != "" {
		cfg.ServerAddress = overrides.ServerAddress
	}

	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	logger.SetLevel(level)

	return cfg, nil
}

// OpenStore opens the configured backend and returns a loaded store.
// Callers must Close the store to flush pending writes.
func OpenStore(ctx context.Context, cfg *config.Config, opts ...store.Option) (*store.Store, error) {
	backend, err := kv.Open(ctx, cfg.Backend, cfg.DataFile)
	if err != nil {
		return nil, err
	}

	timers := store.New(backend, append([]store.Option{store.WithKey(cfg.StorageKey)}, opts...)...)
	timers.Load(ctx)

	return timers, nil
}
