// Package metadata is the durable key/value store of the client. The device
// identity, the remembered-device record and the persistent session tier all
// live here under their own keys.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value store.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update runs fn against a view of the store in which all of fn's reads
	// and writes commit together or not at all.
	Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}
