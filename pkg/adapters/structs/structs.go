// Package structs exposes the fields of a Go struct as a ports.FieldTarget.
//
// Field names follow mapstructure rules: the `mapstructure` tag when present,
// otherwise the Go field name, matched case-insensitively. Values are
// converted with weak typing, so a Struct[string] can edit an int field as
// long as the text parses.
package structs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Struct edits the fields of the struct behind a pointer.
type Struct[T any] struct {
	ptr any
}

var _ ports.FieldTarget[any] = (*Struct[any])(nil)

// New wraps ptr, which must be a non-nil pointer to a struct.
func New[T any](ptr any) (*Struct[T], error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: want pointer to struct, got %T", domain.ErrInvalidTarget, ptr)
	}
	return &Struct[T]{ptr: ptr}, nil
}

// Field returns the named field converted to T.
func (s *Struct[T]) Field(name string) (T, error) {
	var out T

	fields, err := s.fields()
	if err != nil {
		return out, err
	}
	key, ok := lookup(fields, name)
	if !ok {
		return out, domain.ErrFieldNotFound
	}

	if err := decode(fields[key], &out, false); err != nil {
		return out, fmt.Errorf("convert field %q: %w", name, err)
	}
	return out, nil
}

// SetField converts value to the field's type and writes it.
// Unknown names return domain.ErrFieldNotFound.
func (s *Struct[T]) SetField(name string, value T) error {
	fields, err := s.fields()
	if err != nil {
		return err
	}
	key, ok := lookup(fields, name)
	if !ok {
		return domain.ErrFieldNotFound
	}

	if err := decode(map[string]any{key: value}, s.ptr, true); err != nil {
		return fmt.Errorf("write field %q: %w", name, err)
	}
	return nil
}

// Fields returns every field of the struct keyed by its mapstructure name.
func (s *Struct[T]) Fields() (map[string]any, error) {
	return s.fields()
}

func (s *Struct[T]) fields() (map[string]any, error) {
	var fields map[string]any
	if err := mapstructure.Decode(s.ptr, &fields); err != nil {
		return nil, fmt.Errorf("read struct fields: %w", err)
	}
	return fields, nil
}

func lookup(fields map[string]any, name string) (string, bool) {
	if _, ok := fields[name]; ok {
		return name, true
	}
	for key := range fields {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

func decode(input, result any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
