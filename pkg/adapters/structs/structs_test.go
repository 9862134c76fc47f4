package structs_test

import (
	"testing"

	"github.com/aretw0/undokit/pkg/adapters/structs"
	"github.com/aretw0/undokit/pkg/command"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
	"github.com/aretw0/undokit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type car struct {
	Price int    `mapstructure:"value"`
	Color string `mapstructure:"color"`
	Owner string
}

func TestStruct_Contract(t *testing.T) {
	target, err := structs.New[int](&car{Price: 15000})
	require.NoError(t, err)
	ports.RunFieldTargetContract[int](t, target, "value", 20000, 25000)
}

func TestStruct_New(t *testing.T) {
	for _, bad := range []any{nil, car{}, new(int), (*car)(nil)} {
		_, err := structs.New[any](bad)
		assert.ErrorIs(t, err, domain.ErrInvalidTarget, "%T", bad)
	}
}

func TestStruct_NameResolution(t *testing.T) {
	c := &car{Owner: "ana"}
	target, err := structs.New[string](c)
	require.NoError(t, err)

	got, err := target.Field("owner")
	require.NoError(t, err)
	assert.Equal(t, "ana", got, "untagged fields match case-insensitively")

	require.NoError(t, target.SetField("COLOR", "green"))
	assert.Equal(t, "green", c.Color)

	assert.ErrorIs(t, target.SetField("wheels", "4"), domain.ErrFieldNotFound)
}

func TestStruct_WeakTyping(t *testing.T) {
	c := &car{Price: 15000}
	target, err := structs.New[string](c)
	require.NoError(t, err)

	got, err := target.Field("value")
	require.NoError(t, err)
	assert.Equal(t, "15000", got)

	require.NoError(t, target.SetField("value", "20000"))
	assert.Equal(t, 20000, c.Price)

	assert.Error(t, target.SetField("value", "twenty"))
	assert.Equal(t, 20000, c.Price)
}

func TestStruct_WithHistory(t *testing.T) {
	c := &car{Price: 15000, Color: "yellow"}
	target, err := structs.New[any](c)
	require.NoError(t, err)

	price, err := command.NewFieldSet[any](target, 20000)
	require.NoError(t, err)
	color, err := command.NewFieldSet[any](target, "green", "color")
	require.NoError(t, err)

	h := history.New()
	require.NoError(t, h.Push(price, color))
	assert.Equal(t, car{Price: 20000, Color: "green"}, *c)

	_, err = h.Undo()
	require.NoError(t, err)
	assert.Equal(t, car{Price: 15000, Color: "yellow"}, *c)

	fields, err := target.Fields()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": 15000, "color": "yellow", "Owner": ""}, fields)
}
