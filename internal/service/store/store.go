package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/logger"
	"github.com/shoaibubaid/COUNTDOWN/internal/repository/kv"
)

// Store owns the in-memory timer collection and its persisted copy.
type Store struct {
	// backend is where the collection is persisted.
	backend kv.Backend
	// key is the backend key the collection lives under.
	key string
	// clock supplies "now" for presenters sharing this store.
	clock countdown.Clock
	// ids issues identifiers for new timers.
	ids countdown.IDGenerator

	// mu protects timers, loaded and generation.
	mu sync.Mutex
	// timers is the collection in insertion order.
	timers []countdown.Timer
	// loaded is set once Load has completed.
	loaded bool
	// generation counts mutations; each persist carries the value it was issued with.
	generation uint64

	// writeMu serialises backend writes and protects attempted.
	writeMu sync.Mutex
	// attempted is the newest generation handed to the backend, whether or not it was stored.
	attempted uint64

	// pendingMu protects inflight and idle.
	pendingMu sync.Mutex
	// inflight counts background persists that have not finished.
	inflight int
	// idle is closed whenever inflight drops to zero.
	idle chan struct{}

	// errMu protects writeErr.
	errMu sync.Mutex
	// writeErr accumulates write failures until the next Wait.
	writeErr error
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the backend key the collection is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the clock returned by Now.
func WithClock(clock countdown.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides how new timer IDs are generated.
func WithIDGenerator(ids countdown.IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// New creates an unloaded store backed by backend.
func New(backend kv.Backend, opts ...Option) *Store {
	idle := make(chan struct{})
	close(idle)

	s := &Store{
		backend: backend,
		key:     config.DefaultStorageKey,
		clock:   countdown.SystemClock,
		ids:     countdown.UUIDGenerator{},
		idle:    idle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Now returns the current time according to the store's clock.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// Load reads the persisted collection and replaces the in-memory one.
// Outstanding writes are joined first so the read observes them.
// An absent or unreadable list yields an empty collection; entries that
// fail to decode are skipped.
func (s *Store) Load(ctx context.Context) []countdown.Timer {
	<-s.idleChan()

	timers := s.read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers = timers
	s.loaded = true

	logger.InfoKV(ctx, "Timers loaded", "key", s.key, "count", len(timers))

	return slices.Clone(timers)
}

// Add creates a timer, appends it and persists the collection in the background.
func (s *Store) Add(ctx context.Context, label string, target time.Time) (countdown.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return countdown.Timer{}, ErrNotLoaded
	}

	timer := countdown.CreateWith(s.ids, label, target)
	s.timers = append(s.timers, timer)

	logger.InfoKV(ctx, "Timer added", "id", timer.ID, "label", timer.Label, "target", timer.Target)

	s.schedulePersistLocked(ctx)

	return timer, nil
}

// Remove deletes the first timer with the given ID. Unknown IDs are ignored,
// but the collection is persisted either way.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}

	index := slices.IndexFunc(s.timers, func(t countdown.Timer) bool {
		return t.ID == id
	})

	if index >= 0 {
		s.timers = slices.Delete(s.timers, index, index+1)

		logger.InfoKV(ctx, "Timer removed", "id", id)
	} else {
		logger.DebugKV(ctx, "Timer to remove not found", "id", id)
	}

	s.schedulePersistLocked(ctx)

	return nil
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *Store) Snapshot() []countdown.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.timers)
}

// Wait blocks until every background persist issued so far has finished and
// returns the write failures collected since the previous Wait.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.idleChan():
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()

	err := s.writeErr
	s.writeErr = nil

	return err
}

// Close joins outstanding writes and releases the backend if it holds resources.
func (s *Store) Close() error {
	err := s.Wait(context.Background())

	if closer, ok := s.backend.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}

	return err
}

// read fetches and decodes the persisted list without touching memory.
func (s *Store) read(ctx context.Context) []countdown.Timer {
	timers := make([]countdown.Timer, 0)

	blobs, err := s.backend.GetList(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		logger.DebugKV(ctx, "No persisted timers yet", "key", s.key)

		return timers
	case err != nil:
		logger.ErrorKV(ctx, "Starting with no timers", "key", s.key, "error", fmt.Errorf("%w: %w", ErrPersistenceRead, err))

		return timers
	}

	for index, blob := range blobs {
		timer, decodeErr := countdown.Decode(blob)
		if decodeErr != nil {
			logger.WarnKV(ctx, "Skipping malformed timer record", "key", s.key, "index", index, "error", decodeErr)

			continue
		}

		timers = append(timers, timer)
	}

	return timers
}

// schedulePersistLocked encodes the collection and writes it in the background.
// The caller must hold s.mu.
func (s *Store) schedulePersistLocked(ctx context.Context) {
	values := make([]string, 0, len(s.timers))

	for _, timer := range s.timers {
		blob, err := timer.Encode()
		if err != nil {
			logger.ErrorKV(ctx, "Timer left out of persisted list", "id", timer.ID, "error", err)

			continue
		}

		values = append(values, blob)
	}

	s.generation++
	generation := s.generation

	// Writes run to completion even if the caller's context ends.
	writeCtx := context.WithoutCancel(ctx)

	s.beginWrite()

	go func() {
		defer s.endWrite()

		s.persist(writeCtx, generation, values)
	}()
}

// persist stores values unless a newer generation has already been attempted.
// A failed newer write still supersedes older ones, so the backend never moves
// back to a state older than the last failure.
func (s *Store) persist(ctx context.Context, generation uint64, values []string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if generation <= s.attempted {
		logger.DebugKV(ctx, "Skipping superseded write", "generation", generation, "attempted", s.attempted)

		return
	}

	s.attempted = generation

	if err := s.backend.SetList(ctx, s.key, values); err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistenceWrite, err)

		logger.ErrorKV(ctx, "Failed to persist timers", "key", s.key, "count", len(values), "error", err)

		s.errMu.Lock()
		s.writeErr = multierr.Append(s.writeErr, err)
		s.errMu.Unlock()

		return
	}

	logger.DebugKV(ctx, "Timers persisted", "key", s.key, "count", len(values), "generation", generation)
}

// beginWrite registers a background persist.
func (s *Store) beginWrite() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}

	s.inflight++
}

// endWrite marks a background persist as finished.
func (s *Store) endWrite() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
	}
}

// idleChan returns a channel closed once no persists are in flight.
func (s *Store) idleChan() <-chan struct{} {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	return s.idle
}
