package command

import (
	"errors"
	"fmt"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
)

// DefaultProperty is the field a FieldSet writes when no property name is given.
const DefaultProperty = "value"

// FieldSet sets a named field of a target to a new value.
// The previous value is captured when the command is created.
type FieldSet[T any] struct {
	target   ports.FieldTarget[T]
	property string
	oldValue T
	newValue T
	existed  bool
}

var _ domain.Command = (*FieldSet[any])(nil)

// NewFieldSet creates a command that writes newValue to target's property.
// property defaults to DefaultProperty; only the first name is used.
//
// A missing field is not an error: Revert removes it again when the target
// implements ports.FieldDeleter and writes the zero value otherwise.
func NewFieldSet[T any](target ports.FieldTarget[T], newValue T, property ...string) (*FieldSet[T], error) {
	if target == nil {
		return nil, domain.ErrInvalidTarget
	}

	name := DefaultProperty
	if len(property) > 0 && property[0] != "" {
		name = property[0]
	}

	c := &FieldSet[T]{
		target:   target,
		property: name,
		newValue: newValue,
		existed:  true,
	}

	old, err := target.Field(name)
	switch {
	case errors.Is(err, domain.ErrFieldNotFound):
		c.existed = false
	case err != nil:
		return nil, fmt.Errorf("read field %q: %w", name, err)
	default:
		c.oldValue = old
	}
	return c, nil
}

// Apply writes the new value.
func (c *FieldSet[T]) Apply() error {
	if err := c.target.SetField(c.property, c.newValue); err != nil {
		return fmt.Errorf("set field %q: %w", c.property, err)
	}
	return nil
}

// Revert restores the value captured at construction.
func (c *FieldSet[T]) Revert() error {
	if !c.existed {
		if d, ok := c.target.(ports.FieldDeleter); ok {
			if err := d.DeleteField(c.property); err != nil {
				return fmt.Errorf("delete field %q: %w", c.property, err)
			}
			return nil
		}
	}
	if err := c.target.SetField(c.property, c.oldValue); err != nil {
		return fmt.Errorf("restore field %q: %w", c.property, err)
	}
	return nil
}

// Merge replaces the value the command writes.
// The target is left untouched until Apply runs again.
func (c *FieldSet[T]) Merge(newValue T) {
	c.newValue = newValue
}

// Target returns the object the command writes to.
func (c *FieldSet[T]) Target() ports.FieldTarget[T] {
	return c.target
}

// Property returns the name of the field the command writes.
func (c *FieldSet[T]) Property() string {
	return c.property
}

// OldValue returns the value captured at construction.
func (c *FieldSet[T]) OldValue() T {
	return c.oldValue
}

// NewValue returns the value Apply writes.
func (c *FieldSet[T]) NewValue() T {
	return c.newValue
}

// Existed reports whether the field was present when the command was created.
func (c *FieldSet[T]) Existed() bool {
	return c.existed
}

// String returns a human-readable description.
func (c *FieldSet[T]) String() string {
	return fmt.Sprintf("set %s to %v", c.property, c.newValue)
}
