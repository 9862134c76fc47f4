package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventPush  EventType = "push"
	EventUndo  EventType = "undo"
	EventRedo  EventType = "redo"
	EventDrop  EventType = "drop"
	EventClear EventType = "clear"
)

// DropReason tells why a group left the history without being undone.
type DropReason string

const (
	// DropEvicted marks the oldest group removed by a push at capacity.
	DropEvicted DropReason = "evicted"
	// DropShrunk marks the newest groups removed when the limit is lowered.
	DropShrunk DropReason = "shrunk"
)

// HistoryEvent describes a single transition of a history.
type HistoryEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      EventType  `json:"type"`
	GroupSize int        `json:"group_size"`
	UndoDepth int        `json:"undo_depth"`
	RedoDepth int        `json:"redo_depth"`
	Reason    DropReason `json:"reason,omitempty"`
	Err       error      `json:"-"`
}

// IsError reports whether a command of the group failed during the transition.
func (e *HistoryEvent) IsError() bool {
	return e.Err != nil
}

// LifecycleHooks defines callbacks for history observability.
// Hooks run synchronously inside the history operation; they must not call
// back into the same history.
type LifecycleHooks struct {
	OnPush  func(*HistoryEvent)
	OnUndo  func(*HistoryEvent)
	OnRedo  func(*HistoryEvent)
	OnDrop  func(*HistoryEvent)
	OnClear func(*HistoryEvent)
}
