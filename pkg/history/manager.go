package history

import (
	"log/slog"
	"time"

	"github.com/aretw0/undokit/internal/logging"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/gammazero/deque"
)

// DefaultLimit is the number of groups kept in the undo stack when no limit is configured.
const DefaultLimit = 500

// Manager records command groups and moves them between an undo and a redo stack.
type Manager struct {
	undo deque.Deque[domain.Group]
	redo deque.Deque[domain.Group]

	limit  int
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLimit sets the initial capacity of the undo stack.
// Negative values are ignored, as with SetLimit.
func WithLimit(limit int) Option {
	return func(m *Manager) {
		if limit >= 0 {
			m.limit = limit
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// New creates an empty history.
func New(opts ...Option) *Manager {
	m := &Manager{
		limit:  DefaultLimit,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Push records cmds as one group and applies them left to right.
//
// When the undo stack is exactly at the limit the oldest group is evicted
// first; the new group itself is always kept. The redo stack is always cleared. A push without commands records an empty
// group, which still takes a slot.
func (m *Manager) Push(cmds ...domain.Command) error {
	group := domain.Group(cmds)
	if len(group) == 0 {
		m.logger.Debug("pushing empty group")
	}

	if m.undo.Len() > 0 && m.undo.Len() == m.limit {
		evicted := m.undo.PopFront()
		m.drop(evicted, domain.DropEvicted)
	}
	m.undo.PushBack(group)

	err := group.Apply()
	m.redo.Clear()

	if err != nil {
		m.logger.Warn("push applied partially", "group_size", len(group), "err", err)
	}
	m.emit(m.hooks.OnPush, domain.EventPush, len(group), err)
	return err
}

// Undo reverts the most recent group and moves it to the redo stack.
// It reports false, without error, when there is nothing to undo.
func (m *Manager) Undo() (bool, error) {
	if m.undo.Len() == 0 {
		m.logger.Info("no undo available")
		return false, nil
	}

	group := m.undo.PopBack()
	err := group.Revert()
	m.redo.PushBack(group)

	if err != nil {
		m.logger.Warn("undo reverted partially", "group_size", len(group), "err", err)
	}
	m.emit(m.hooks.OnUndo, domain.EventUndo, len(group), err)
	return true, err
}

// Redo re-applies the most recently undone group and moves it back to the undo stack.
// It reports false, without error, when there is nothing to redo.
// Redo does not enforce the limit.
func (m *Manager) Redo() (bool, error) {
	if m.redo.Len() == 0 {
		m.logger.Info("no redo available")
		return false, nil
	}

	group := m.redo.PopBack()
	err := group.Apply()
	m.undo.PushBack(group)

	if err != nil {
		m.logger.Warn("redo applied partially", "group_size", len(group), "err", err)
	}
	m.emit(m.hooks.OnRedo, domain.EventRedo, len(group), err)
	return true, err
}

// SetLimit changes the capacity of the undo stack.
// Negative values are ignored. When the stack is larger than the new limit,
// the most recently pushed groups are discarded first.
func (m *Manager) SetLimit(limit int) {
	if limit < 0 {
		return
	}
	for m.undo.Len() > limit {
		discarded := m.undo.PopBack()
		m.drop(discarded, domain.DropShrunk)
	}
	m.limit = limit
}

// Limit returns the capacity of the undo stack.
func (m *Manager) Limit() int {
	return m.limit
}

// ClearHistory forgets every group in both stacks.
// No command is applied or reverted and the limit is kept.
func (m *Manager) ClearHistory() {
	m.undo.Clear()
	m.redo.Clear()
	m.emit(m.hooks.OnClear, domain.EventClear, 0, nil)
}

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return m.undo.Len() > 0
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return m.redo.Len() > 0
}

// UndoCount returns the number of groups that can be undone.
func (m *Manager) UndoCount() int {
	return m.undo.Len()
}

// RedoCount returns the number of groups that can be redone.
func (m *Manager) RedoCount() int {
	return m.redo.Len()
}

func (m *Manager) drop(group domain.Group, reason domain.DropReason) {
	m.logger.Debug("dropping group", "reason", string(reason), "group_size", len(group))
	if m.hooks.OnDrop == nil {
		return
	}
	e := m.event(domain.EventDrop, len(group), nil)
	e.Reason = reason
	m.hooks.OnDrop(e)
}

func (m *Manager) emit(hook func(*domain.HistoryEvent), typ domain.EventType, size int, err error) {
	if hook == nil {
		return
	}
	hook(m.event(typ, size, err))
}

func (m *Manager) event(typ domain.EventType, size int, err error) *domain.HistoryEvent {
	return &domain.HistoryEvent{
		Timestamp: time.Now(),
		Type:      typ,
		GroupSize: size,
		UndoDepth: m.undo.Len(),
		RedoDepth: m.redo.Len(),
		Err:       err,
	}
}
