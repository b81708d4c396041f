// Package cache defines the response-cache contract: serialized VOTable
// bodies keyed by normalized query, tagged so invalidation events can purge
// everything a catalog change may have affected.
package cache

import (
	"context"
	"time"
)

type Interface interface {
	// Get returns the cached body for key, with a hit flag.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a body under key and registers it with every tag.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration, tags ...string) error

	// PurgeTag removes every entry registered under tag and returns how many
	// keys were dropped.
	PurgeTag(ctx context.Context, tag string) (int, error)
}
