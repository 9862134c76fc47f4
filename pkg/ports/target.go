package ports

// FieldTarget is an object with named, writable fields of type T.
type FieldTarget[T any] interface {
	// Field returns the current value of the named field.
	// Returns domain.ErrFieldNotFound if the field does not exist.
	Field(name string) (T, error)

	// SetField writes the named field, creating it if the target allows it.
	SetField(name string, value T) error
}

// FieldDeleter is implemented by targets whose fields can be removed.
type FieldDeleter interface {
	DeleteField(name string) error
}
