package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/undokit/internal/logging"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
	"github.com/aretw0/undokit/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the sessions of a document store and serialises access to them.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu       sync.Mutex            // guards locks and sessions
	locks    map[string]*lockEntry // active per-document locks
	sessions map[string]*Session

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger

	historyOpts []history.Option
	window      time.Duration
	now         func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager and the histories it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHistoryOptions sets the options used for every new session history.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(m *Manager) {
		m.historyOpts = append(m.historyOpts, opts...)
	}
}

// WithCoalesceWindow merges edits of the same field made within d of each other.
// Zero disables merging.
func WithCoalesceWindow(d time.Duration) Option {
	return func(m *Manager) {
		m.window = d
	}
}

// WithClock replaces time.Now for coalescing decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new session manager over the given document store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*Session),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithSession runs fn with exclusive access to the session of document id,
// opening the document and creating its history on first use.
func (m *Manager) WithSession(ctx context.Context, id string, fn func(context.Context, *Session) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		s, err := m.session(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
}

// View is WithSession for reads: it returns domain.ErrDocumentNotFound
// instead of creating a document that does not exist yet.
func (m *Manager) View(ctx context.Context, id string, fn func(context.Context, *Session) error) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		ok, err := m.store.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrDocumentNotFound
		}
		s, err := m.session(ctx, id)
		if err != nil {
			return err
		}
		return fn(ctx, s)
	})
}

func (m *Manager) session(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	doc, err := m.store.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	logger := m.logger.With("document", id)
	opts := append([]history.Option{history.WithLogger(logger)}, m.historyOpts...)
	s = newSession(id, doc, history.New(opts...), m.window, m.now)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logger.Debug("session opened")
	return s, nil
}

// Delete removes the document from the store and forgets its history.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release even when the caller's context is already done.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"document", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
