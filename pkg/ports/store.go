package ports

import "context"

// Document is an editable set of fields managed by the session layer.
type Document interface {
	FieldTarget[any]
	FieldDeleter

	// Fields returns a snapshot of every field.
	Fields() (map[string]any, error)
}

// DocumentStore opens documents by ID.
type DocumentStore interface {
	// Open returns the document with the given ID, creating an empty one if needed.
	Open(ctx context.Context, id string) (Document, error)

	// Exists reports whether the document has been opened and not deleted.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes the document.
	// Returns domain.ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all known documents.
	List(ctx context.Context) ([]string, error)
}
