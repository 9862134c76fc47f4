package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultTimeout bounds every Redis call made by a Hash.
const DefaultTimeout = 2 * time.Second

// Hash implements ports.FieldTarget over a single Redis hash.
// Values are stored as JSON. Commands carry no context, so each call runs
// under its own timeout.
type Hash[T any] struct {
	client  *backend.Client
	key     string
	timeout time.Duration
}

var (
	_ ports.FieldTarget[string] = (*Hash[string])(nil)
	_ ports.Document            = (*Hash[any])(nil)
)

// NewHash returns a target for the hash stored at key.
// A zero timeout selects DefaultTimeout.
func NewHash[T any](client *backend.Client, key string, timeout time.Duration) *Hash[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Hash[T]{
		client:  client,
		key:     key,
		timeout: timeout,
	}
}

// Key returns the Redis key of the hash.
func (h *Hash[T]) Key() string {
	return h.key
}

// Field reads and decodes one hash field.
func (h *Hash[T]) Field(name string) (T, error) {
	var out T
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	raw, err := h.client.HGet(ctx, h.key, name).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return out, domain.ErrFieldNotFound
		}
		return out, fmt.Errorf("failed to get field from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal field %q: %w", name, err)
	}
	return out, nil
}

// SetField encodes and writes one hash field.
func (h *Hash[T]) SetField(name string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal field %q: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.client.HSet(ctx, h.key, name, data).Err(); err != nil {
		return fmt.Errorf("failed to set field in redis: %w", err)
	}
	return nil
}

// DeleteField removes one hash field. Missing fields are ignored.
func (h *Hash[T]) DeleteField(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.client.HDel(ctx, h.key, name).Err(); err != nil {
		return fmt.Errorf("failed to delete field in redis: %w", err)
	}
	return nil
}

// Fields reads the whole hash.
func (h *Hash[T]) Fields() (map[string]any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	raw, err := h.client.HGetAll(ctx, h.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hash from redis: %w", err)
	}

	fields := make(map[string]any, len(raw))
	for name, data := range raw {
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal field %q: %w", name, err)
		}
		fields[name] = v
	}
	return fields, nil
}
