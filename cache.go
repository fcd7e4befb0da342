package regioncache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	c "github.com/unkn0wn-root/regioncache/codec"
	"github.com/unkn0wn-root/regioncache/internal/keys"
	"github.com/unkn0wn-root/regioncache/internal/wire"
	st "github.com/unkn0wn-root/regioncache/store"
)

type region struct {
	name  string
	store st.Store
	codec c.Codec
	ttl   time.Duration
	log   Logger
	hooks Hooks

	strategy    Strategy
	destructive bool

	enabled atomic.Bool

	// flight collapses concurrent loads for the same storage key into one
	// loader invocation.
	flight singleflight.Group
}

var _ Cache = (*region)(nil)

func newRegion(ctx context.Context, opts Options) (*region, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("regioncache: store is required")
	}

	r := &region{
		name:        opts.Region,
		store:       opts.Store,
		ttl:         opts.TTL,
		destructive: opts.DestructiveFlush,
	}
	r.codec = coalesce[c.Codec](opts.Codec, c.Msgpack{})
	r.log = coalesce[Logger](opts.Logger, NopLogger{})
	r.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	r.enabled.Store(!opts.Disabled)

	strategy, err := classify(opts.Store, opts.AlwaysFlush)
	if err != nil {
		return nil, err
	}
	r.strategy = strategy

	if err := provision(ctx, r.name, r.store, strategy, r.hooks); err != nil {
		return nil, err
	}

	r.log.Debug("region built", Fields{"region": r.name, "strategy": strategy.String(), "ttl": r.ttl})
	return r, nil
}

func (r *region) Name() string       { return r.name }
func (r *region) TTL() time.Duration { return r.ttl }
func (r *region) Store() st.Store    { return r.store }
func (r *region) Strategy() Strategy { return r.strategy }

func (r *region) Enabled() bool { return r.enabled.Load() }
func (r *region) Enable()       { r.enabled.Store(true) }
func (r *region) Disable()      { r.enabled.Store(false) }

func (r *region) Get(ctx context.Context, key string) (*ValueWrapper, error) {
	if !r.enabled.Load() {
		return nil, nil
	}
	return r.lookup(ctx, key)
}

// lookup reads and decodes one entry regardless of the enabled flag.
func (r *region) lookup(ctx context.Context, key string) (*ValueWrapper, error) {
	sk := keys.Encode(r.name, key)
	raw, ok, err := r.store.Get(ctx, sk)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	payload, isNil, err := wire.Decode(raw)
	if err != nil {
		// Foreign or corrupt bytes under our namespace. Drop and miss.
		_ = r.store.Remove(ctx, sk)
		r.hooks.SelfHeal(sk, "corrupt")
		return nil, nil
	}
	if isNil {
		return r.nilWrapper(key), nil
	}

	var v any
	if err := r.codec.Unmarshal(payload, &v); err != nil {
		return nil, &DeserializationError{Key: key, Cause: err}
	}
	return &ValueWrapper{value: v, raw: payload, key: key, codec: r.codec}, nil
}

func (r *region) GetOrLoad(ctx context.Context, key string, loader LoaderFunc) (any, error) {
	if !r.enabled.Load() {
		// Permanent miss: every call loads, nothing is stored.
		v, err := loader(ctx)
		if err != nil {
			r.hooks.LoadFailed(r.name, key, err)
			return nil, &LoadError{Region: r.name, Key: key, Cause: err}
		}
		return v, nil
	}

	if w, err := r.lookup(ctx, key); err != nil {
		return nil, &LoadError{Region: r.name, Key: key, Cause: err}
	} else if w != nil {
		return w.Value(), nil
	}

	sk := keys.Encode(r.name, key)
	v, err, _ := r.flight.Do(sk, func() (any, error) {
		// Re-check after the gate: another caller may have finished the load
		// between our miss and acquiring the flight.
		if w, err := r.lookup(ctx, key); err != nil {
			return nil, err
		} else if w != nil {
			return w.Value(), nil
		}

		v, err := loader(ctx)
		if err != nil {
			r.hooks.LoadFailed(r.name, key, err)
			return nil, err
		}
		if err := r.Put(ctx, key, v); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, &LoadError{Region: r.name, Key: key, Cause: err}
	}
	return v, nil
}

func (r *region) Put(ctx context.Context, key string, value any) error {
	if value == nil {
		// A nil put is a removal, and evict works even when disabled.
		return r.Evict(ctx, key)
	}
	if !r.enabled.Load() {
		return nil
	}

	payload, err := r.codec.Marshal(value)
	if err != nil {
		return &NotSerializableError{Key: key, Cause: err}
	}
	return r.store.Upsert(ctx, keys.Encode(r.name, key), wire.Encode(payload, false), r.ttl)
}

func (r *region) PutIfAbsent(ctx context.Context, key string, value any) (*ValueWrapper, error) {
	if !r.enabled.Load() {
		return nil, nil
	}

	entry := wire.Encode(nil, true)
	if value != nil {
		payload, err := r.codec.Marshal(value)
		if err != nil {
			return nil, &NotSerializableError{Key: key, Cause: err}
		}
		entry = wire.Encode(payload, false)
	}

	sk := keys.Encode(r.name, key)
	err := r.store.Insert(ctx, sk, entry, r.ttl)
	if err == nil {
		// This call stored the value.
		return nil, nil
	}
	if !errors.Is(err, st.ErrKeyExists) {
		return nil, err
	}

	// The insert lost to an existing entry; read the winner back. This read
	// is not atomic with the insert attempt: a concurrent evict can remove
	// the winner first, in which case the wrapper holds a nil value.
	w, err := r.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return r.nilWrapper(key), nil
	}
	return w, nil
}

func (r *region) Evict(ctx context.Context, key string) error {
	err := r.store.Remove(ctx, keys.Encode(r.name, key))
	if errors.Is(err, st.ErrKeyAbsent) {
		// Already gone is the outcome we wanted.
		return nil
	}
	return err
}

func (r *region) Clear(ctx context.Context) error {
	return r.clear(ctx)
}

func (r *region) nilWrapper(key string) *ValueWrapper {
	return &ValueWrapper{isNil: true, key: key, codec: r.codec}
}
