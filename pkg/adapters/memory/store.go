package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
)

// Store implements ports.DocumentStore in memory.
// The store itself is safe for concurrent use; the documents it hands out are not.
type Store struct {
	data map[string]Object[any]
	mu   sync.RWMutex
}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]Object[any]),
	}
}

// Open returns the document, creating an empty one on first use.
func (s *Store) Open(ctx context.Context, id string) (ports.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[id]
	if !ok {
		doc = make(Object[any])
		s.data[id] = doc
	}
	return doc, nil
}

// Exists reports whether the document is in the store.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[id]
	return ok, nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(s.data, id)
	return nil
}

// List returns the document IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
