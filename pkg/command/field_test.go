package command_test

import (
	"errors"
	"testing"

	"github.com/aretw0/undokit/pkg/adapters/memory"
	"github.com/aretw0/undokit/pkg/command"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenTarget fails every call with err.
type brokenTarget struct{ err error }

func (b brokenTarget) Field(string) (string, error)   { return "", b.err }
func (b brokenTarget) SetField(string, string) error { return b.err }

// fixedTarget has no FieldDeleter, so missing fields revert to the zero value.
type fixedTarget map[string]int

func (f fixedTarget) Field(name string) (int, error) {
	v, ok := f[name]
	if !ok {
		return 0, domain.ErrFieldNotFound
	}
	return v, nil
}

func (f fixedTarget) SetField(name string, v int) error {
	f[name] = v
	return nil
}

func TestFieldSet_CapturesAtConstruction(t *testing.T) {
	car := memory.Object[string]{"value": "$15,000"}

	cmd, err := command.NewFieldSet[string](car, "$20,000")
	require.NoError(t, err)

	assert.Equal(t, "value", cmd.Property())
	assert.Equal(t, "$15,000", cmd.OldValue())
	assert.Equal(t, "$20,000", cmd.NewValue())
	assert.True(t, cmd.Existed())
	assert.Equal(t, "$15,000", car["value"], "construction does not write")

	// Later edits of the object do not change the captured value.
	car["value"] = "$17,000"
	assert.Equal(t, "$15,000", cmd.OldValue())
}

func TestFieldSet_ApplyRevert(t *testing.T) {
	car := memory.Object[string]{"value": "$15,000", "color": "yellow"}

	cmd, err := command.NewFieldSet[string](car, "green", "color")
	require.NoError(t, err)

	require.NoError(t, cmd.Apply())
	assert.Equal(t, "green", car["color"])
	assert.Equal(t, "$15,000", car["value"])

	require.NoError(t, cmd.Revert())
	assert.Equal(t, "yellow", car["color"])
}

func TestFieldSet_EmptyPropertyUsesDefault(t *testing.T) {
	obj := memory.Object[int]{"value": 1}
	cmd, err := command.NewFieldSet[int](obj, 2, "")
	require.NoError(t, err)
	assert.Equal(t, command.DefaultProperty, cmd.Property())
}

func TestFieldSet_Merge(t *testing.T) {
	obj := memory.Object[int]{"value": 1}
	cmd, err := command.NewFieldSet[int](obj, 2)
	require.NoError(t, err)
	require.NoError(t, cmd.Apply())

	cmd.Merge(3)
	assert.Equal(t, 2, obj["value"], "merge does not touch the live object")
	assert.Equal(t, 3, cmd.NewValue())
	assert.Equal(t, 1, cmd.OldValue(), "merge keeps the old value")

	require.NoError(t, cmd.Apply())
	assert.Equal(t, 3, obj["value"])

	require.NoError(t, cmd.Revert())
	assert.Equal(t, 1, obj["value"])
}

func TestFieldSet_MissingField(t *testing.T) {
	t.Run("deleter removes the field again", func(t *testing.T) {
		obj := memory.Object[string]{}
		cmd, err := command.NewFieldSet[string](obj, "green", "color")
		require.NoError(t, err)
		assert.False(t, cmd.Existed())

		require.NoError(t, cmd.Apply())
		assert.Equal(t, "green", obj["color"])

		require.NoError(t, cmd.Revert())
		_, ok := obj["color"]
		assert.False(t, ok)
	})

	t.Run("other targets get the zero value", func(t *testing.T) {
		obj := fixedTarget{}
		cmd, err := command.NewFieldSet[int](obj, 7, "count")
		require.NoError(t, err)

		require.NoError(t, cmd.Apply())
		require.NoError(t, cmd.Revert())
		assert.Equal(t, fixedTarget{"count": 0}, obj)
	})
}

func TestFieldSet_Errors(t *testing.T) {
	_, err := command.NewFieldSet[int](nil, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	boom := errors.New("boom")
	_, err = command.NewFieldSet[string](brokenTarget{err: boom}, "x")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `read field "value"`)

	var nilMap memory.Object[int]
	cmd, err := command.NewFieldSet[int](nilMap, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, cmd.Apply(), domain.ErrInvalidTarget)
}

func TestFieldSet_String(t *testing.T) {
	cmd, err := command.NewFieldSet[int](memory.Object[int]{}, 5, "size")
	require.NoError(t, err)
	assert.Equal(t, "set size to 5", cmd.String())
}

func TestFunc(t *testing.T) {
	n := 0
	f := command.Func{
		ApplyFn:  func() error { n++; return nil },
		RevertFn: func() error { n--; return nil },
	}
	require.NoError(t, f.Apply())
	assert.Equal(t, 1, n)
	require.NoError(t, f.Revert())
	assert.Equal(t, 0, n)

	assert.NoError(t, command.Func{}.Apply())
	assert.NoError(t, command.Func{}.Revert())
}
