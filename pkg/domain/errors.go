package domain

import "errors"

// ErrFieldNotFound is returned by field targets when the named field does not exist.
var ErrFieldNotFound = errors.New("field not found")

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrInvalidTarget is returned when a value cannot be used as a field target.
var ErrInvalidTarget = errors.New("invalid field target")
