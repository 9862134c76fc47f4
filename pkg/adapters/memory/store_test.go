package memory_test

import (
	"testing"

	"github.com/aretw0/undokit/pkg/adapters/memory"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDocumentStoreContract(t, store)
}

func TestObject_Contract(t *testing.T) {
	ports.RunFieldTargetContract[int](t, memory.Object[int]{}, "value", 15000, 20000)
}

func TestObject_SharesUnderlyingMap(t *testing.T) {
	car := map[string]string{"value": "$15,000"}
	obj := memory.Object[string](car)

	assert.NoError(t, obj.SetField("color", "green"))
	assert.Equal(t, "green", car["color"])

	fields, err := obj.Fields()
	assert.NoError(t, err)
	fields["value"] = "changed"
	assert.Equal(t, "$15,000", car["value"], "Fields returns a copy")
}

func TestObject_NilMap(t *testing.T) {
	var obj memory.Object[int]
	assert.ErrorIs(t, obj.SetField("value", 1), domain.ErrInvalidTarget)
}
