package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFieldTargetContract runs a suite of tests to verify that a FieldTarget implementation
// adheres to the defined interface contract. name must be writable on the target and
// a and b must be distinct values.
func RunFieldTargetContract[T any](t *testing.T, target FieldTarget[T], name string, a, b T) {
	t.Run("Missing Field", func(t *testing.T) {
		_, err := target.Field("contract-missing-field")
		assert.ErrorIs(t, err, domain.ErrFieldNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, target.SetField(name, a))
		got, err := target.Field(name)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, target.SetField(name, b))
		got, err := target.Field(name)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	deleter, ok := target.(FieldDeleter)
	if !ok {
		return
	}

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, deleter.DeleteField(name))
		_, err := target.Field(name)
		assert.ErrorIs(t, err, domain.ErrFieldNotFound)

		// Deleting twice is not an error.
		assert.NoError(t, deleter.DeleteField(name))
	})
}

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore implementation
// adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-test-doc-" + time.Now().Format("20060102150405")

	t.Run("Open and Edit", func(t *testing.T) {
		ok, err := store.Exists(ctx, docID)
		require.NoError(t, err)
		assert.False(t, ok, "a document does not exist before it is opened")

		doc, err := store.Open(ctx, docID)
		require.NoError(t, err)

		ok, err = store.Exists(ctx, docID)
		require.NoError(t, err)
		assert.True(t, ok, "an opened document exists even without fields")

		fields, err := doc.Fields()
		require.NoError(t, err)
		assert.Empty(t, fields, "a new document has no fields")

		require.NoError(t, doc.SetField("foo", "bar"))

		reopened, err := store.Open(ctx, docID)
		require.NoError(t, err)
		got, err := reopened.Field("foo")
		require.NoError(t, err)
		assert.Equal(t, "bar", got)

		fields, err = reopened.Fields()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"foo": "bar"}, fields)
	})

	t.Run("List", func(t *testing.T) {
		other := docID + "-other"
		_, err := store.Open(ctx, other)
		require.NoError(t, err)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, docID)
		assert.Contains(t, ids, other)

		require.NoError(t, store.Delete(ctx, other))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, docID))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, docID)

		ok, err := store.Exists(ctx, docID)
		require.NoError(t, err)
		assert.False(t, ok)

		err = store.Delete(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Delete of a missing document should fail")

		doc, err := store.Open(ctx, docID)
		require.NoError(t, err)
		_, err = doc.Field("foo")
		assert.ErrorIs(t, err, domain.ErrFieldNotFound, "a reopened document starts empty")
		require.NoError(t, store.Delete(ctx, docID))
	})
}
