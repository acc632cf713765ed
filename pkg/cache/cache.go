// Package cache stores rendered diagram artifacts so repeated exports of an
// unchanged tree skip the Graphviz layout pass.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache stores opaque byte blobs under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RenderKey builds the cache key for a rendered artifact. The key is derived
// from the DOT source and the output format, so any change to the tree or the
// render options produces a fresh key.
func RenderKey(format string, dotSource []byte) string {
	return fmt.Sprintf("render:%s:%s", format, Hash(dotSource))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
