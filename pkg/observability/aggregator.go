package observability

import (
	"log/slog"

	"github.com/aretw0/undokit/pkg/domain"
)

// Combine returns hooks that call every non-nil hook of each set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	pick := func(get func(domain.LifecycleHooks) func(*domain.HistoryEvent)) func(*domain.HistoryEvent) {
		var fns []func(*domain.HistoryEvent)
		for _, s := range sets {
			if fn := get(s); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(e *domain.HistoryEvent) {
			for _, fn := range fns {
				fn(e)
			}
		}
	}

	return domain.LifecycleHooks{
		OnPush:  pick(func(h domain.LifecycleHooks) func(*domain.HistoryEvent) { return h.OnPush }),
		OnUndo:  pick(func(h domain.LifecycleHooks) func(*domain.HistoryEvent) { return h.OnUndo }),
		OnRedo:  pick(func(h domain.LifecycleHooks) func(*domain.HistoryEvent) { return h.OnRedo }),
		OnDrop:  pick(func(h domain.LifecycleHooks) func(*domain.HistoryEvent) { return h.OnDrop }),
		OnClear: pick(func(h domain.LifecycleHooks) func(*domain.HistoryEvent) { return h.OnClear }),
	}
}

// LogHooks logs every event at debug level, and failed transitions at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	log := func(e *domain.HistoryEvent) {
		attrs := []any{
			"event", string(e.Type),
			"group_size", e.GroupSize,
			"undo_depth", e.UndoDepth,
			"redo_depth", e.RedoDepth,
		}
		if e.Reason != "" {
			attrs = append(attrs, "reason", string(e.Reason))
		}
		if e.IsError() {
			logger.Warn("history transition failed", append(attrs, "err", e.Err)...)
			return
		}
		logger.Debug("history transition", attrs...)
	}
	return domain.LifecycleHooks{
		OnPush:  log,
		OnUndo:  log,
		OnRedo:  log,
		OnDrop:  log,
		OnClear: log,
	}
}
