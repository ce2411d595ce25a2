package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned when the key has never been written
	ErrKeyNotFound = errors.New("key not found")

	// ErrVersionConflict is returned when a Put loses a concurrent write race
	ErrVersionConflict = errors.New("version conflict")
)

// KV is a durable string key-value store with optimistic versioning. Get
// returns the stored value and its version; Put succeeds only when
// expectedVersion matches the stored version (0 for a key that does not exist
// yet) and returns the new version. Last-writer-wins overwrite is not offered.
type KV interface {
	Get(ctx context.Context, key string) (string, int64, error)
	Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
