package regioncache

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/regioncache/store"
)

// Strategy is how a region clears its own keys out of a shared store. It is
// resolved once from the store's capabilities when the region is built and
// never re-probed.
type Strategy uint8

const (
	// StrategyIndexQuery enumerates the region's keys through a secondary
	// index maintained by the store.
	StrategyIndexQuery Strategy = iota + 1
	// StrategyScanQuery enumerates the region's keys with a declarative
	// prefix scan.
	StrategyScanQuery
	// StrategyFlushOnly cannot enumerate; clearing means flushing the whole
	// store and requires the destructive opt-in.
	StrategyFlushOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyIndexQuery:
		return "index-query"
	case StrategyScanQuery:
		return "scan-query"
	case StrategyFlushOnly:
		return "flush-only"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// classify picks the clearing strategy from the store's declared
// capabilities. Index-assisted enumeration wins over a scan, a scan over
// flush-only; a store offering none of the three is unusable as a cache
// backend.
func classify(s store.Store, alwaysFlush bool) (Strategy, error) {
	if alwaysFlush {
		return StrategyFlushOnly, nil
	}
	if _, ok := s.(store.IndexQuerier); ok {
		return StrategyIndexQuery, nil
	}
	if _, ok := s.(store.Scanner); ok {
		return StrategyScanQuery, nil
	}
	if _, ok := s.(store.Flusher); ok {
		return StrategyFlushOnly, nil
	}
	return 0, &UnsupportedBackendError{Store: fmt.Sprintf("%T", s)}
}

// provision runs the store's one-time index setup when the selected strategy
// relies on enumeration and the store asks for it. Stores keep EnsureIndex
// idempotent, so racing constructions of the same region are safe.
func provision(ctx context.Context, region string, s store.Store, strategy Strategy, hooks Hooks) error {
	if strategy == StrategyFlushOnly {
		return nil
	}
	p, ok := s.(store.Provisioner)
	if !ok {
		return nil
	}
	if err := p.EnsureIndex(ctx); err != nil {
		return &IndexProvisioningError{Region: region, Cause: err}
	}
	hooks.IndexProvisioned(region)
	return nil
}
