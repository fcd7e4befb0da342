package regioncache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A corrupt entry was deleted by the cache on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// A region clear finished. removed counts successful deletions, skipped
	// counts keys that were already gone when the delete reached them.
	RegionCleared(region string, removed, skipped int)

	// A region clear fell through to a whole-store flush. Everything sharing
	// the store is gone, not just this region's keys.
	StoreFlushed(region string)

	// A getOrLoad loader invocation failed.
	LoadFailed(region, key string, err error)

	// Index provisioning for a store completed (once per store, lazily).
	IndexProvisioned(region string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)          {}
func (NopHooks) RegionCleared(string, int, int)   {}
func (NopHooks) StoreFlushed(string)              {}
func (NopHooks) LoadFailed(string, string, error) {}
func (NopHooks) IndexProvisioned(string)          {}
