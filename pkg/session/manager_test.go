package session_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/undokit/pkg/adapters/memory"
	"github.com/aretw0/undokit/pkg/adapters/redis"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
	"github.com/aretw0/undokit/pkg/ports"
	"github.com/aretw0/undokit/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func with(t *testing.T, mgr *session.Manager, id string, fn func(s *session.Session)) {
	t.Helper()
	err := mgr.WithSession(context.Background(), id, func(_ context.Context, s *session.Session) error {
		fn(s)
		return nil
	})
	require.NoError(t, err)
}

func TestSession_SetUndoRedo(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())

	with(t, mgr, "car", func(s *session.Session) {
		assert.Equal(t, "car", s.ID())

		merged, err := s.Set("value", 15000)
		require.NoError(t, err)
		assert.False(t, merged)
		_, err = s.Set("value", 20000)
		require.NoError(t, err)

		ok, err := s.Undo()
		require.NoError(t, err)
		assert.True(t, ok)

		fields, err := s.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": 15000}, fields)

		assert.Equal(t, session.Status{
			UndoDepth: 1, RedoDepth: 1, Limit: history.DefaultLimit, CanUndo: true, CanRedo: true,
		}, s.Status())
	})

	// The history survives between calls.
	with(t, mgr, "car", func(s *session.Session) {
		ok, err := s.Redo()
		require.NoError(t, err)
		assert.True(t, ok)
		v, err := s.Document().Field("value")
		require.NoError(t, err)
		assert.Equal(t, 20000, v)
	})
}

func TestSession_Coalescing(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	mgr := session.NewManager(memory.NewStore(),
		session.WithCoalesceWindow(time.Second),
		session.WithClock(clock.Now),
	)

	with(t, mgr, "doc", func(s *session.Session) {
		_, err := s.Set("title", "h")
		require.NoError(t, err)

		for _, v := range []string{"he", "hel", "hello"} {
			clock.Advance(500 * time.Millisecond)
			merged, err := s.Set("title", v)
			require.NoError(t, err)
			assert.True(t, merged, "edit %q within the window merges", v)
		}
		assert.Equal(t, 1, s.Status().UndoDepth)

		// Another field is a new step.
		merged, err := s.Set("author", "ana")
		require.NoError(t, err)
		assert.False(t, merged)

		// Too late to merge.
		clock.Advance(2 * time.Second)
		merged, err = s.Set("author", "bob")
		require.NoError(t, err)
		assert.False(t, merged)
		assert.Equal(t, 3, s.Status().UndoDepth)

		// Undo breaks the chain even inside the window.
		_, err = s.Undo()
		require.NoError(t, err)
		merged, err = s.Set("author", "carl")
		require.NoError(t, err)
		assert.False(t, merged)

		_, _ = s.Undo()
		_, _ = s.Undo()
		_, _ = s.Undo()
		fields, err := s.Snapshot()
		require.NoError(t, err)
		assert.Empty(t, fields, "one undo per step restores the empty document")
	})
}

func TestSession_CoalescingDisabled(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	with(t, mgr, "doc", func(s *session.Session) {
		for i := 0; i < 3; i++ {
			merged, err := s.Set("value", i)
			require.NoError(t, err)
			assert.False(t, merged)
		}
		assert.Equal(t, 3, s.Status().UndoDepth)
	})
}

func TestSession_SetManyIsOneStep(t *testing.T) {
	mgr := session.NewManager(memory.NewStore(),
		session.WithHistoryOptions(history.WithLimit(10)),
	)
	with(t, mgr, "car", func(s *session.Session) {
		require.NoError(t, s.SetMany(map[string]any{"value": "$15,000", "color": "yellow"}))
		require.NoError(t, s.SetMany(map[string]any{"value": "$20,000", "color": "green"}))
		assert.Equal(t, 2, s.Status().UndoDepth)
		assert.Equal(t, 10, s.Status().Limit)

		_, err := s.Undo()
		require.NoError(t, err)
		fields, err := s.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"value": "$15,000", "color": "yellow"}, fields)
	})
}

func TestSession_LimitAndClear(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	with(t, mgr, "doc", func(s *session.Session) {
		for i := 1; i <= 5; i++ {
			_, err := s.Set("value", i)
			require.NoError(t, err)
		}
		s.SetLimit(2)
		assert.Equal(t, 2, s.Status().UndoDepth)

		s.Clear()
		assert.Equal(t, session.Status{Limit: 2}, s.Status())
		v, err := s.Document().Field("value")
		require.NoError(t, err)
		assert.Equal(t, 5, v, "clear keeps the document")
	})
}

func TestSession_RejectsInvalidInput(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	with(t, mgr, "doc", func(s *session.Session) {
		_, err := s.Set("\x00", "v")
		assert.ErrorIs(t, err, session.ErrEmptyField)

		err = s.SetMany(map[string]any{"ok": 1, "bad": strings.Repeat("x", session.DefaultMaxValueSize+1)})
		assert.ErrorIs(t, err, session.ErrInputTooLarge)
		assert.False(t, s.Status().CanUndo, "a rejected batch pushes nothing")

		_, err = s.Set("", "\x1b[1mbold")
		require.NoError(t, err)
		v, err := s.Document().Field("value")
		require.NoError(t, err)
		assert.Equal(t, "[1mbold", v)
	})
}

func TestManager_SerialisesAccess(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.WithSession(ctx, "counter", func(_ context.Context, s *session.Session) error {
				v, err := s.Document().Field("n")
				if errors.Is(err, domain.ErrFieldNotFound) {
					v = 0
				} else if err != nil {
					return err
				}
				time.Sleep(time.Millisecond)
				_, err = s.Set("n", v.(int)+1)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	with(t, mgr, "counter", func(s *session.Session) {
		v, err := s.Document().Field("n")
		require.NoError(t, err)
		assert.Equal(t, 20, v, "no lost updates")
		assert.Equal(t, 20, s.Status().UndoDepth)
	})
}

type failingStore struct{ ports.DocumentStore }

func (failingStore) Open(context.Context, string) (ports.Document, error) {
	return nil, errors.New("store down")
}

func TestManager_OpenError(t *testing.T) {
	mgr := session.NewManager(failingStore{memory.NewStore()})
	err := mgr.WithSession(context.Background(), "doc", func(context.Context, *session.Session) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorContains(t, err, "store down")
}

func TestManager_DeleteAndList(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	with(t, mgr, "a", func(s *session.Session) { _, _ = s.Set("value", 1) })
	with(t, mgr, "b", func(s *session.Session) {})

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, mgr.Delete(ctx, "a"))
	assert.ErrorIs(t, mgr.Delete(ctx, "a"), domain.ErrDocumentNotFound)

	with(t, mgr, "a", func(s *session.Session) {
		assert.False(t, s.Status().CanUndo, "a recreated document starts with a fresh history")
	})
	assert.NotNil(t, mgr.Store())
}

// recordingLocker remembers the context its unlock was called with.
type recordingLocker struct {
	unlockErr error
	unlocked  bool
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return func(ctx context.Context) error {
		l.unlocked = true
		l.unlockErr = ctx.Err()
		return nil
	}, nil
}

func TestManager_UnlockSurvivesCancelledContext(t *testing.T) {
	locker := &recordingLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	ctx, cancel := context.WithCancel(context.Background())
	err := mgr.WithSession(ctx, "doc", func(ctx context.Context, s *session.Session) error {
		cancel() // the client went away mid-request
		_, err := s.Set("value", 1)
		return err
	})
	require.NoError(t, err)

	assert.True(t, locker.unlocked)
	assert.NoError(t, locker.unlockErr, "unlock must not inherit the cancellation")
}

func TestManager_ViewDoesNotCreate(t *testing.T) {
	store := memory.NewStore()
	mgr := session.NewManager(store)
	ctx := context.Background()

	err := mgr.View(ctx, "ghost", func(context.Context, *session.Session) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	ok, err := store.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	with(t, mgr, "ghost", func(s *session.Session) { _, _ = s.Set("value", 1) })
	err = mgr.View(ctx, "ghost", func(_ context.Context, s *session.Session) error {
		assert.Equal(t, 1, s.Status().UndoDepth, "View sees the live session")
		return nil
	})
	require.NoError(t, err)
}

func TestManager_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	mgr := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, "undokit:")),
		session.WithLockTTL(5*time.Second),
	)

	with(t, mgr, "car", func(s *session.Session) {
		assert.True(t, mr.Exists("undokit:lock:car"), "distributed lock is held during fn")
		_, err := s.Set("color", "green")
		require.NoError(t, err)
		_, err = s.Undo()
		require.NoError(t, err)
	})
	assert.False(t, mr.Exists("undokit:lock:car"), "distributed lock is released")
	assert.Empty(t, mr.HGet("undokit:doc:car", "color"))
}
