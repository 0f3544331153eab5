package ports

import (
	"context"
	"time"
)

// TTL sentinel values, matching Redis semantics.
const (
	TTLKeyMissing time.Duration = -2
	TTLNoExpiry   time.Duration = -1
)

// Store is a shared key-value store with per-key expiry. Implementations
// must be safe for concurrent use by multiple in-flight requests.
type Store interface {
	// Set stores value under key with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value for key, or core.ErrKeyNotFound on a miss.
	Get(ctx context.Context, key string) (string, error)

	// Del removes key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining lifetime of key, TTLKeyMissing if the key is
	// absent or TTLNoExpiry if it has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
