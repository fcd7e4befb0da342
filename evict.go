package regioncache

import (
	"context"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/regioncache/internal/keys"
	st "github.com/unkn0wn-root/regioncache/store"
)

// clear removes this region's entries using the strategy resolved at
// construction. Enumerating strategies never touch keys outside the region;
// the flush-only path destroys the whole store and is gated behind the
// destructive opt-in.
func (r *region) clear(ctx context.Context) error {
	switch r.strategy {
	case StrategyIndexQuery:
		iq, ok := r.store.(st.IndexQuerier)
		if !ok {
			return fmt.Errorf("regioncache: store lost index capability for region %q", r.name)
		}
		found, err := iq.RegionKeys(ctx, r.name)
		if err != nil {
			return err
		}
		return r.evictAll(ctx, found)

	case StrategyScanQuery:
		sc, ok := r.store.(st.Scanner)
		if !ok {
			return fmt.Errorf("regioncache: store lost scan capability for region %q", r.name)
		}
		found, err := sc.ScanKeys(ctx, keys.RegionPrefix(r.name))
		if err != nil {
			return err
		}
		return r.evictAll(ctx, found)

	case StrategyFlushOnly:
		if !r.destructive {
			return ErrDestructiveFlushRefused
		}
		fl, ok := r.store.(st.Flusher)
		if !ok {
			return fmt.Errorf("regioncache: store lost flush capability for region %q", r.name)
		}
		if err := fl.Flush(ctx); err != nil {
			return err
		}
		r.log.Warn("region clear flushed the whole store", Fields{"region": r.name})
		r.hooks.StoreFlushed(r.name)
		return nil

	default:
		return fmt.Errorf("regioncache: region %q has no clearing strategy", r.name)
	}
}

// evictAll deletes every enumerated storage key. An empty region is success.
// A key that a concurrent evictor already removed is skipped, not fatal.
func (r *region) evictAll(ctx context.Context, storageKeys []string) error {
	var removed, skipped int
	for _, sk := range storageKeys {
		err := r.store.Remove(ctx, sk)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, st.ErrKeyAbsent):
			skipped++
		default:
			return err
		}
	}
	r.log.Debug("region cleared", Fields{"region": r.name, "removed": removed, "skipped": skipped})
	r.hooks.RegionCleared(r.name, removed, skipped)
	return nil
}
