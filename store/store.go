// Package store defines the document-store abstraction used by regioncache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Upsert or Insert for a key
// (no prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Get are identical to the bytes
// written.
//
// Beyond the core Store contract, a driver declares what it can do through
// the optional capability interfaces below. The cache engine inspects them
// once at construction to pick a region-clearing strategy: a driver with
// IndexQuerier gets index-assisted enumeration, one with only Scanner gets a
// declarative scan, and one with only Flusher is restricted to whole-store
// flushes. A driver implementing none of the three cannot back a cache.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyExists is returned by Insert when the key is already present.
	ErrKeyExists = errors.New("store: key already exists")
	// ErrKeyAbsent is returned by Remove when the key is not present.
	ErrKeyAbsent = errors.New("store: key not found")
)

// Store is a minimal remote document store with per-entry TTLs.
// Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Upsert stores value under key, replacing any existing entry.
	// ttl <= 0 means no expiry.
	Upsert(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Insert stores value under key only if the key does not exist.
	// Returns ErrKeyExists when it does; the existence check is atomic.
	Insert(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove deletes key. Returns ErrKeyAbsent when no entry existed.
	Remove(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// IndexQuerier is implemented by stores that maintain a secondary index over
// the region component of the storage-key shape (see internal/keys) and can
// enumerate one region's keys without touching unrelated data.
type IndexQuerier interface {
	// RegionKeys returns every storage key belonging to region. An empty
	// region yields an empty slice, not an error.
	RegionKeys(ctx context.Context, region string) ([]string, error)
}

// Scanner is implemented by stores that expose a declarative key scan. The
// engine derives the match prefix from the storage-key shape; implementations
// must treat the prefix literally (escaping any pattern metacharacters of
// their native scan primitive).
type Scanner interface {
	// ScanKeys returns every key starting with prefix.
	ScanKeys(ctx context.Context, prefix string) ([]string, error)
}

// Flusher is implemented by stores that can destroy every entry they hold.
// This is indiscriminate: it removes all regions and any foreign data sharing
// the store.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Provisioner is implemented by stores whose enumeration capability needs a
// one-time setup step (e.g., creating a secondary index). EnsureIndex must be
// idempotent and tolerate concurrent callers: observing "already exists" on a
// racing create is success, not failure.
type Provisioner interface {
	EnsureIndex(ctx context.Context) error
}
