package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
)

// errUnknownBackend is returned by Open for unsupported backend names.
var errUnknownBackend = errors.New("unknown storage backend")

// Open returns the backend named by backendName, rooted at path.
// The memory backend ignores path.
func Open(ctx context.Context, backendName, path string) (Backend, error) {
	switch backendName {
	case config.BackendFile, "":
		return NewFileBackend(path), nil
	case config.BackendSQLite:
		backend, err := NewSQLiteBackend(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}

		return backend, nil
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, backendName)
	}
}
