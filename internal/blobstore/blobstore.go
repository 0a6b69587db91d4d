// Package blobstore defines the narrow persistence port the intake engine
// writes through. Callers own their key layout; the store only moves bytes.
// Adapters exist for memory, sqlite, redis, and postgres so the engine stays
// storage-agnostic.
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"assetgate/pkg/platform/sentinel"
)

// Store is the persistence port. Get returns sentinel.ErrNotFound for a
// missing key. Any backend failure wraps sentinel.ErrUnavailable so callers
// can treat it as retryable; a failed write must leave the stored value
// unchanged.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// unavailable wraps a backend failure so it matches sentinel.ErrUnavailable
// while keeping the cause in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(sentinel.ErrUnavailable, err))
}
