package kv

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Backend defines persistence operations for ordered string lists.
// SetList replaces the whole list atomically from the caller's perspective.
type Backend interface {
	GetList(ctx context.Context, key string) ([]string, error)
	SetList(ctx context.Context, key string, values []string) error
}

var (
	// ErrNotFound is returned when no list has been stored under a key yet.
	ErrNotFound = errors.New("list not found")
	// errEmptyKey is returned when a blank key is used.
	errEmptyKey = errors.New("key must be provided")
)

// MemoryBackend keeps lists in process memory. Nothing survives a restart.
type MemoryBackend struct {
	// lists maps keys to their stored values.
	lists map[string][]string
	// mu protects lists.
	mu sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		lists: make(map[string][]string),
	}
}

// GetList returns a copy of the list stored under key.
func (m *MemoryBackend) GetList(_ context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, errEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.lists[key]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(values), nil
}

// SetList stores a copy of values under key.
func (m *MemoryBackend) SetList(_ context.Context, key string, values []string) error {
	if key == "" {
		return errEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]string, len(values))
	copy(stored, values)
	m.lists[key] = stored

	return nil
}
