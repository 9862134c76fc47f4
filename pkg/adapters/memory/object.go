package memory

import (
	"maps"

	"github.com/aretw0/undokit/pkg/domain"
)

// Object is a plain map used as a field target.
// The map is shared, not copied: writes are visible to every holder.
type Object[T any] map[string]T

// Field returns the value stored under name.
func (o Object[T]) Field(name string) (T, error) {
	v, ok := o[name]
	if !ok {
		var zero T
		return zero, domain.ErrFieldNotFound
	}
	return v, nil
}

// SetField stores value under name.
func (o Object[T]) SetField(name string, value T) error {
	if o == nil {
		return domain.ErrInvalidTarget
	}
	o[name] = value
	return nil
}

// DeleteField removes name from the map.
func (o Object[T]) DeleteField(name string) error {
	delete(o, name)
	return nil
}

// Fields returns a shallow copy of the map.
func (o Object[T]) Fields() (map[string]T, error) {
	return maps.Clone(map[string]T(o)), nil
}
