// Package history persists raw values under string keys. The order history
// lives under a single key as a JSON array.
package history

import "context"

// Store is a minimal key-value store. Get returns domain.ErrNotFound for missing keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
