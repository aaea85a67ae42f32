package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
	"github.com/shoaibubaid/COUNTDOWN/internal/domain/countdown"
	"github.com/shoaibubaid/COUNTDOWN/internal/repository/kv"
)

var (
	errTestRead  = errors.New("test read error")
	errTestWrite = errors.New("test write error")
)

// flakyBackend wraps a MemoryBackend and fails reads or writes on demand.
type flakyBackend struct {
	*kv.MemoryBackend

	// mu protects the fields below.
	mu sync.Mutex
	// readErr is returned from GetList when set.
	readErr error
	// writeErr is returned from SetList when set.
	writeErr error
	// writes counts SetList calls that reached the backend.
	writes int
	// closed is set by Close.
	closed bool
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{MemoryBackend: kv.NewMemoryBackend()}
}

func (f *flakyBackend) GetList(ctx context.Context, key string) ([]string, error) {
	f.mu.Lock()
	err := f.readErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return f.MemoryBackend.GetList(ctx, key)
}

func (f *flakyBackend) SetList(ctx context.Context, key string, values []string) error {
	f.mu.Lock()
	f.writes++
	err := f.writeErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.MemoryBackend.SetList(ctx, key, values)
}

func (f *flakyBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true

	return nil
}

func (f *flakyBackend) failWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writeErr = err
}

// sequentialIDs returns "timer-1", "timer-2", ...
func sequentialIDs() countdown.IDGenerator {
	var (
		mu   sync.Mutex
		next int
	)

	return countdown.IDGeneratorFunc(func() string {
		mu.Lock()
		defer mu.Unlock()

		next++

		return fmt.Sprintf("timer-%d", next)
	})
}

func newLoadedStore(t *testing.T, backend kv.Backend, opts ...Option) *Store {
	t.Helper()

	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	s := New(backend, opts...)
	s.Load(context.Background())

	return s
}

func berlin() time.Time {
	return time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local)
}

// TestStore_MutationsRequireLoad ensures Add and Remove are rejected before Load.
func TestStore_MutationsRequireLoad(t *testing.T) {
	t.Parallel()

	s := New(kv.NewMemoryBackend())
	require.False(t, s.Loaded())

	_, err := s.Add(context.Background(), "x", berlin())
	require.ErrorIs(t, err, ErrNotLoaded)
	require.ErrorIs(t, s.Remove(context.Background(), "x"), ErrNotLoaded)

	require.Empty(t, s.Load(context.Background()))
	require.True(t, s.Loaded())
}

// TestStore_AddThenFreshLoad covers the end-to-end example across store instances.
func TestStore_AddThenFreshLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewFileBackend(filepath.Join(t.TempDir(), "timers.json"))

	first := newLoadedStore(t, backend)

	added, err := first.Add(ctx, "Trip to Berlin", berlin())
	require.NoError(t, err)
	require.Equal(t, "Trip to Berlin", added.Label)
	require.NoError(t, first.Close())

	second := New(backend)
	loaded := second.Load(ctx)

	require.Len(t, loaded, 1)
	require.Equal(t, "Trip to Berlin", loaded[0].Label)
	require.True(t, berlin().Equal(loaded[0].Target))
	require.Equal(t, added.ID, loaded[0].ID)
	require.True(t, added.Equal(loaded[0]))
}

// TestStore_AddBlankLabel verifies the placeholder label for whitespace input.
func TestStore_AddBlankLabel(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, kv.NewMemoryBackend())

	timer, err := s.Add(context.Background(), "   ", berlin())
	require.NoError(t, err)
	require.Equal(t, countdown.UntitledLabel, timer.Label)
	require.NoError(t, s.Wait(context.Background()))
}

// TestStore_InsertionOrder ensures Snapshot keeps insertion order.
func TestStore_InsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newLoadedStore(t, kv.NewMemoryBackend())

	for _, label := range []string{"a", "b", "c"} {
		_, err := s.Add(ctx, label, berlin())
		require.NoError(t, err)
	}

	labels := make([]string, 0, 3)
	for _, timer := range s.Snapshot() {
		labels = append(labels, timer.Label)
	}

	require.Equal(t, []string{"a", "b", "c"}, labels)
	require.NoError(t, s.Wait(ctx))
}

// TestStore_AddThenRemoveRestoresCollection checks memory and persisted form after add+remove.
func TestStore_AddThenRemoveRestoresCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := newLoadedStore(t, backend)

	for _, label := range []string{"one", "two"} {
		_, err := s.Add(ctx, label, berlin())
		require.NoError(t, err)
	}

	require.NoError(t, s.Wait(ctx))

	before := s.Snapshot()
	persistedBefore, err := backend.GetList(ctx, "timers")
	require.NoError(t, err)

	added, err := s.Add(ctx, "three", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, added.ID))
	require.NoError(t, s.Wait(ctx))

	require.Equal(t, before, s.Snapshot())

	persistedAfter, err := backend.GetList(ctx, "timers")
	require.NoError(t, err)
	require.Equal(t, persistedBefore, persistedAfter)
}

// TestStore_RemoveUnknownIsNoop verifies removing a missing ID succeeds and still persists.
func TestStore_RemoveUnknownIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newFlakyBackend()
	s := newLoadedStore(t, backend)

	_, err := s.Add(ctx, "keep", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Wait(ctx))

	require.NoError(t, s.Remove(ctx, "does-not-exist"))
	require.NoError(t, s.Remove(ctx, "does-not-exist"))
	require.NoError(t, s.Wait(ctx))

	require.Len(t, s.Snapshot(), 1)

	backend.mu.Lock()
	writes := backend.writes
	backend.mu.Unlock()
	require.GreaterOrEqual(t, writes, 2)
}

// TestStore_RemoveFirstMatchOnly removes exactly one record when IDs collide.
func TestStore_RemoveFirstMatchOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	same := countdown.IDGeneratorFunc(func() string { return "dup" })
	s := New(kv.NewMemoryBackend(), WithIDGenerator(same))
	s.Load(ctx)

	_, err := s.Add(ctx, "first", berlin())
	require.NoError(t, err)
	_, err = s.Add(ctx, "second", berlin())
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "dup"))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, "second", snapshot[0].Label)
	require.NoError(t, s.Wait(ctx))
}

// TestStore_LoadIsIdempotent ensures two loads without mutations yield the same sequence.
func TestStore_LoadIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := newLoadedStore(t, backend)

	for _, label := range []string{"a", "b"} {
		_, err := s.Add(ctx, label, berlin())
		require.NoError(t, err)
	}

	first := s.Load(ctx)
	second := s.Load(ctx)

	require.Len(t, first, 2)
	require.Equal(t, first, second)
}

// TestStore_LoadSkipsMalformedEntries keeps entries 1 and 3 when entry 2 is invalid JSON.
func TestStore_LoadSkipsMalformedEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()

	one, err := countdown.New("1", "first", berlin()).Encode()
	require.NoError(t, err)
	three, err := countdown.New("3", "third", berlin().Add(time.Hour)).Encode()
	require.NoError(t, err)

	require.NoError(t, backend.SetList(ctx, "timers", []string{one, `{"id": "2", "label":`, three}))

	loaded := New(backend).Load(ctx)

	require.Len(t, loaded, 2)
	require.Equal(t, "1", loaded[0].ID)
	require.Equal(t, "3", loaded[1].ID)
}

// TestStore_LoadReadFailureStartsEmpty treats an unreadable backend as no data.
func TestStore_LoadReadFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newFlakyBackend()
	backend.readErr = errTestRead

	s := New(backend)
	require.Empty(t, s.Load(ctx))
	require.True(t, s.Loaded())

	_, err := s.Add(ctx, "x", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Wait(ctx))
}

// TestStore_LoadCorruptFileStartsEmpty uses a real file backend with garbage on disk.
func TestStore_LoadCorruptFileStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/timers.json", []byte("garbage"), 0o600))

	backend := kv.NewFileBackendFs(fs, "/timers.json")
	s := New(backend)
	require.Empty(t, s.Load(ctx))

	_, err := s.Add(ctx, "recovered", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Wait(ctx))

	loaded := New(backend).Load(ctx)
	require.Len(t, loaded, 1)
	require.Equal(t, "recovered", loaded[0].Label)
}

// TestStore_EmptyIDSurvivesReload reloads a timer whose generator issued an empty ID.
func TestStore_EmptyIDSurvivesReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()

	s := New(backend, WithIDGenerator(countdown.IDGeneratorFunc(func() string { return "" })))
	s.Load(ctx)

	added, err := s.Add(ctx, "kept", berlin())
	require.NoError(t, err)
	require.Empty(t, added.ID)
	require.NoError(t, s.Wait(ctx))

	loaded := New(backend).Load(ctx)
	require.Len(t, loaded, 1)
	require.True(t, added.Equal(loaded[0]))
}

// TestStore_WriteFailureKeepsMemory verifies optimistic updates survive failed writes.
func TestStore_WriteFailureKeepsMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newFlakyBackend()
	s := newLoadedStore(t, backend)

	backend.failWrites(errTestWrite)

	_, err := s.Add(ctx, "unsaved", berlin())
	require.NoError(t, err)

	err = s.Wait(ctx)
	require.ErrorIs(t, err, ErrPersistenceWrite)
	require.ErrorIs(t, err, errTestWrite)
	require.Len(t, s.Snapshot(), 1)

	// Errors are reported once.
	require.NoError(t, s.Wait(ctx))

	// The next successful write reconciles.
	backend.failWrites(nil)

	_, err = s.Add(ctx, "saved", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Wait(ctx))

	loaded := New(backend).Load(ctx)
	require.Len(t, loaded, 2)
}

// TestStore_LastIssuedWriteWins ensures the persisted form matches memory after a burst.
func TestStore_LastIssuedWriteWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := newLoadedStore(t, backend)

	var ids []string

	for i := range 20 {
		timer, err := s.Add(ctx, fmt.Sprintf("t%d", i), berlin())
		require.NoError(t, err)

		ids = append(ids, timer.ID)
	}

	for _, id := range ids[:10] {
		require.NoError(t, s.Remove(ctx, id))
	}

	require.NoError(t, s.Wait(ctx))

	loaded := New(backend).Load(ctx)
	require.Equal(t, s.Snapshot(), loaded)
}

// TestStore_FailedWriteSupersedesOlderWrites keeps an older queued write from
// landing after a newer one failed.
func TestStore_FailedWriteSupersedesOlderWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newFlakyBackend()
	s := newLoadedStore(t, backend)

	backend.failWrites(errTestWrite)
	s.persist(ctx, 2, []string{"newer"})

	backend.failWrites(nil)
	s.persist(ctx, 1, []string{"older"})

	_, err := backend.GetList(ctx, config.DefaultStorageKey)
	require.ErrorIs(t, err, kv.ErrNotFound)

	backend.mu.Lock()
	defer backend.mu.Unlock()

	require.Equal(t, 1, backend.writes)
}

// TestStore_SnapshotIsCopy ensures callers cannot mutate store state through a snapshot.
func TestStore_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newLoadedStore(t, kv.NewMemoryBackend())

	_, err := s.Add(ctx, "original", berlin())
	require.NoError(t, err)

	snapshot := s.Snapshot()
	snapshot[0] = countdown.New("other", "mutated", berlin())

	require.Equal(t, "original", s.Snapshot()[0].Label)
	require.NoError(t, s.Wait(ctx))
}

// TestStore_CustomKey checks that the configured key is used.
func TestStore_CustomKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	s := newLoadedStore(t, backend, WithKey("countdowns"))

	_, err := s.Add(ctx, "x", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Wait(ctx))

	_, err = backend.GetList(ctx, "timers")
	require.ErrorIs(t, err, kv.ErrNotFound)

	stored, err := backend.GetList(ctx, "countdowns")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

// TestStore_NowUsesInjectedClock verifies the clock option drives Now.
func TestStore_NowUsesInjectedClock(t *testing.T) {
	t.Parallel()

	fixed := berlin().Add(-time.Hour)
	s := New(kv.NewMemoryBackend(), WithClock(countdown.ClockFunc(func() time.Time { return fixed })))

	require.Equal(t, fixed, s.Now())

	s.Load(context.Background())

	timer, err := s.Add(context.Background(), "soon", berlin())
	require.NoError(t, err)
	require.Equal(t, time.Hour, timer.Remaining(s.Now()))
	require.NoError(t, s.Wait(context.Background()))
}

// TestStore_WaitHonoursContext returns the context error when writes are still running.
func TestStore_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	backend := &blockingBackend{MemoryBackend: kv.NewMemoryBackend(), release: release}
	s := newLoadedStore(t, backend)

	_, err := s.Add(context.Background(), "slow", berlin())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, s.Wait(context.Background()))
}

// TestStore_WritesOutliveCallerContext ensures a cancelled caller context does not abort persistence.
func TestStore_WritesOutliveCallerContext(t *testing.T) {
	t.Parallel()

	backend := kv.NewMemoryBackend()
	s := newLoadedStore(t, backend)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Add(ctx, "kept", berlin())
	require.NoError(t, err)
	cancel()

	require.NoError(t, s.Wait(context.Background()))
	require.Len(t, New(backend).Load(context.Background()), 1)
}

// TestStore_CloseReleasesBackend verifies Close waits and closes io.Closer backends.
func TestStore_CloseReleasesBackend(t *testing.T) {
	t.Parallel()

	backend := newFlakyBackend()
	s := newLoadedStore(t, backend)

	_, err := s.Add(context.Background(), "x", berlin())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	backend.mu.Lock()
	defer backend.mu.Unlock()

	require.True(t, backend.closed)
}

// blockingBackend holds every SetList until release is closed.
type blockingBackend struct {
	*kv.MemoryBackend

	release chan struct{}
}

func (b *blockingBackend) SetList(ctx context.Context, key string, values []string) error {
	<-b.release

	return b.MemoryBackend.SetList(ctx, key, values)
}
