package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read-through cache in front of public content.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false means a cache miss and dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded unless already a string) with ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
