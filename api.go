package regioncache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/regioncache/codec"
	st "github.com/unkn0wn-root/regioncache/store"
)

// LoaderFunc computes a missing value for GetOrLoad. It may return nil,
// which is cached as a removal (same contract as Put).
type LoaderFunc func(ctx context.Context) (any, error)

// Cache is one named region inside a shared document store. Regions on the
// same store are isolated: keys are namespaced, and Clear removes only this
// region's entries (unless the store is flush-only).
type Cache interface {
	// Name returns the region name. May be empty for the unnamed region.
	Name() string
	// TTL returns the expiry applied to entries written by this region.
	// Zero means entries do not expire.
	TTL() time.Duration
	// Store returns the backing store handle.
	Store() st.Store
	// Strategy returns the region-clearing strategy resolved at construction.
	Strategy() Strategy

	Enabled() bool
	Enable()
	Disable()

	// Get returns the entry for key: nil when absent, a wrapper holding a
	// nil value for a cached negative decision, a wrapper holding the
	// decoded value otherwise. A disabled region reports every key absent
	// without contacting the store.
	Get(ctx context.Context, key string) (*ValueWrapper, error)

	// GetOrLoad returns the cached value for key; on a miss it runs loader
	// at most once across concurrent callers, stores the result, and hands
	// the same value (or the same LoadError) to everyone who waited.
	GetOrLoad(ctx context.Context, key string, loader LoaderFunc) (any, error)

	// Put upserts value under key with the region TTL. A nil value is
	// defined as a removal, not a stored nil. On a disabled region non-nil
	// puts are no-ops.
	Put(ctx context.Context, key string, value any) error

	// PutIfAbsent atomically inserts value and returns nil when this call
	// stored it. If the key already exists, the winning entry is read back
	// and returned; that read is not atomic with the insert attempt and can
	// race with a concurrent evict, in which case the returned wrapper holds
	// a nil value. This weak fallback is part of the contract.
	PutIfAbsent(ctx context.Context, key string, value any) (*ValueWrapper, error)

	// Evict deletes the single entry for key. A key that is already gone is
	// success, not an error.
	Evict(ctx context.Context, key string) error

	// Clear removes every entry belonging to this region and nothing else.
	// The exception is a flush-only strategy, where it destroys the whole
	// store and therefore refuses to run unless DestructiveFlush was set.
	Clear(ctx context.Context) error
}

// Options configures a region. Only Store is required.
type Options struct {
	// Region names the cache region. Empty is allowed (the unnamed region);
	// the key shape keeps it distinct from every named region.
	Region string
	// Store is the shared backing document store.
	Store st.Store
	// Codec serializes values. Nil defaults to msgpack.
	Codec c.Codec
	// TTL is applied to every entry written by this region. Zero = no expiry.
	TTL time.Duration

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	// Disabled starts the region disabled: reads miss, writes are no-ops,
	// evict/clear still operate on real storage.
	Disabled bool

	// AlwaysFlush skips capability classification and forces the flush-only
	// strategy even on stores that could enumerate.
	AlwaysFlush bool

	// DestructiveFlush permits Clear to flush the whole store under the
	// flush-only strategy. Never the default: a flush destroys all regions
	// and any foreign data sharing the store.
	DestructiveFlush bool
}

// New builds a region cache: it classifies the store's capabilities into a
// clearing strategy and, when the strategy relies on an index, lazily
// provisions it (idempotent across concurrent constructions).
func New(ctx context.Context, opts Options) (Cache, error) {
	return newRegion(ctx, opts)
}
