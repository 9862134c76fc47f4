package session

import (
	"sort"
	"time"

	"github.com/aretw0/undokit/pkg/command"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
	"github.com/aretw0/undokit/pkg/ports"
)

// Status summarises the history of a session.
type Status struct {
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	Limit     int  `json:"limit"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
}

// Session is one document and its history.
// It must only be used inside Manager.WithSession.
type Session struct {
	id      string
	doc     ports.Document
	history *history.Manager

	window time.Duration
	now    func() time.Time

	// last is the most recent single-field edit, eligible for merging
	// until another history operation happens.
	last   *command.FieldSet[any]
	lastAt time.Time
}

func newSession(id string, doc ports.Document, h *history.Manager, window time.Duration, now func() time.Time) *Session {
	return &Session{
		id:      id,
		doc:     doc,
		history: h,
		window:  window,
		now:     now,
	}
}

// ID returns the document ID.
func (s *Session) ID() string {
	return s.id
}

// Document returns the live document.
func (s *Session) Document() ports.Document {
	return s.doc
}

// Set writes one field as an undoable step.
// An edit of the same field within the coalescing window is merged into the
// previous step instead; merged reports whether that happened.
// An empty name writes the default property.
func (s *Session) Set(name string, value any) (merged bool, err error) {
	if name == "" {
		name = command.DefaultProperty
	}
	name, value, err = clean(name, value)
	if err != nil {
		return false, err
	}

	now := s.now()
	if s.mergeable(name, now) {
		s.last.Merge(value)
		s.lastAt = now
		return true, s.last.Apply()
	}

	cmd, err := command.NewFieldSet[any](s.doc, value, name)
	if err != nil {
		return false, err
	}
	err = s.history.Push(cmd)

	s.last, s.lastAt = nil, time.Time{}
	if s.history.CanUndo() {
		s.last, s.lastAt = cmd, now
	}
	return false, err
}

// SetMany writes several fields as one undoable step, in field name order.
func (s *Session) SetMany(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]domain.Command, 0, len(names))
	for _, name := range names {
		field, value, err := clean(name, values[name])
		if err != nil {
			return err
		}
		cmd, err := command.NewFieldSet[any](s.doc, value, field)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	s.forget()
	return s.history.Push(cmds...)
}

// Undo reverts the most recent step. It reports false when there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	s.forget()
	return s.history.Undo()
}

// Redo re-applies the most recently undone step. It reports false when there is nothing to redo.
func (s *Session) Redo() (bool, error) {
	s.forget()
	return s.history.Redo()
}

// SetLimit changes the history capacity; see history.Manager.SetLimit.
func (s *Session) SetLimit(limit int) {
	s.forget()
	s.history.SetLimit(limit)
}

// Clear forgets the history and keeps the document as it is.
func (s *Session) Clear() {
	s.forget()
	s.history.ClearHistory()
}

// Snapshot returns the current fields of the document.
func (s *Session) Snapshot() (map[string]any, error) {
	return s.doc.Fields()
}

// Status returns the history counters.
func (s *Session) Status() Status {
	return Status{
		UndoDepth: s.history.UndoCount(),
		RedoDepth: s.history.RedoCount(),
		Limit:     s.history.Limit(),
		CanUndo:   s.history.CanUndo(),
		CanRedo:   s.history.CanRedo(),
	}
}

func (s *Session) mergeable(name string, now time.Time) bool {
	if s.window <= 0 || s.last == nil {
		return false
	}
	return s.last.Property() == name && now.Sub(s.lastAt) <= s.window
}

func (s *Session) forget() {
	s.last, s.lastAt = nil, time.Time{}
}

func clean(name string, value any) (string, any, error) {
	name, err := SanitizeField(name)
	if err != nil {
		return "", nil, err
	}
	value, err = SanitizeValue(value)
	if err != nil {
		return "", nil, err
	}
	return name, value, nil
}
