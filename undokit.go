package undokit

import (
	_ "embed"
	"log/slog"
	"strings"

	"github.com/aretw0/undokit/pkg/adapters/memory"
	"github.com/aretw0/undokit/pkg/command"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
)

//go:embed VERSION
var version string

// Version is the release of this module.
var Version = strings.TrimSpace(version)

// Option configures a History.
type Option = history.Option

// History is a grouped undo/redo history.
type History = history.Manager

// DefaultLimit is the number of groups a History keeps unless told otherwise.
const DefaultLimit = history.DefaultLimit

// New creates an empty History.
func New(opts ...Option) *History {
	return history.New(opts...)
}

// WithLimit sets how many groups the History keeps.
func WithLimit(limit int) Option {
	return history.WithLimit(limit)
}

// WithLogger sets the logger used for history events.
func WithLogger(logger *slog.Logger) Option {
	return history.WithLogger(logger)
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return history.WithLifecycleHooks(hooks)
}

// SetValue creates a command that writes newValue to obj[property].
// property defaults to "value". The current value is captured now; the map
// is not touched until the command is pushed.
func SetValue[T any](obj map[string]T, newValue T, property ...string) (*command.FieldSet[T], error) {
	return command.NewFieldSet[T](memory.Object[T](obj), newValue, property...)
}
