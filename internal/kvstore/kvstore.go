// Package kvstore defines the keyed expiring store the OTP controller runs
// against. Production uses the DynamoDB implementation (conditional writes,
// native TTL); tests and single-node setups use the in-memory one.
package kvstore

import (
	"context"
	"time"
)

// Store is a flat key-value store with per-key expiry. All operations are
// atomic per key; concurrent writers for the same key resolve last-write-wins
// except SetNX, which only succeeds for the first writer of a live key.
type Store interface {
	// Get returns the live value for key. The second return is false when the
	// key is absent or expired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any live value, expiring after ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX writes only if no live value exists. Returns true when the write won.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Incr atomically increments the counter at key and returns the new value.
	// The expiry window is anchored at the first increment and is not extended
	// by later ones, giving a trailing-window counter.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
