package redis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key prefix for document hashes.
const DefaultPrefix = "undokit:doc:"

// Store implements ports.DocumentStore with one Redis hash per document.
// Document IDs are tracked in a set so empty documents can be listed.
type Store struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
}

var _ ports.DocumentStore = (*Store)(nil)

type Option func(*Store)

// WithPrefix sets the key prefix for documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout sets the per-call timeout used by the documents' field operations.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.timeout = timeout
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Open registers the document in the index and returns its hash.
func (s *Store) Open(ctx context.Context, id string) (ports.Document, error) {
	if err := s.client.SAdd(ctx, s.indexKey(), id).Err(); err != nil {
		return nil, fmt.Errorf("failed to register document: %w", err)
	}
	return NewHash[any](s.client, s.key(id), s.timeout), nil
}

// Exists checks the index set, so empty documents count as existing.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.indexKey(), id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check document: %w", err)
	}
	return ok, nil
}

// Delete removes the document hash and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	removed, err := s.client.SRem(ctx, s.indexKey(), id).Result()
	if err != nil {
		return fmt.Errorf("failed to unregister document: %w", err)
	}
	if removed == 0 {
		return domain.ErrDocumentNotFound
	}

	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// List returns the registered document IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Client returns the underlying Redis client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
